package main

import (
	"testing"

	"github.com/svnws/svnws/internal/svn"
)

func TestValidateBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain name", input: "feature-x", wantErr: false},
		{name: "dotted version", input: "release-1.2", wantErr: false},
		{name: "trunk reserved", input: "trunk", wantErr: true},
		{name: "branches reserved", input: "branches", wantErr: true},
		{name: "tags reserved case insensitive", input: "Tags", wantErr: true},
		{name: "path separator", input: "a/b", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateBranchName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBranchName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRevisionArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "number", input: "42", want: "42"},
		{name: "r prefix stripped", input: "r42", want: "42"},
		{name: "head", input: "HEAD", want: "HEAD"},
		{name: "head lowercase", input: "head", want: "HEAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rev, err := svn.ParseRevision(tt.input)
			if err != nil {
				t.Fatalf("ParseRevision(%q): %v", tt.input, err)
			}
			if got := revisionArg(rev); got != tt.want {
				t.Errorf("revisionArg(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
