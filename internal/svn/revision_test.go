package svn

import "testing"

func TestParseRevision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Revision
		wantErr bool
	}{
		{
			name:  "bare number",
			input: "123",
			want:  Number(123),
		},
		{
			name:  "lowercase r prefix",
			input: "r42",
			want:  Number(42),
		},
		{
			name:  "uppercase R prefix",
			input: "R7",
			want:  Number(7),
		},
		{
			name:  "head keyword",
			input: "HEAD",
			want:  Head(),
		},
		{
			name:  "head is case-insensitive",
			input: "head",
			want:  Head(),
		},
		{
			name:  "surrounding whitespace",
			input: "  r9\n",
			want:  Number(9),
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "trunk",
			wantErr: true,
		},
		{
			name:    "prefix only",
			input:   "r",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRevision(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRevision(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRevision(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRevision(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRevisionCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Revision
		want int
	}{
		{name: "lower number is less", a: Number(5), b: Number(10), want: -1},
		{name: "higher number is greater", a: Number(10), b: Number(5), want: 1},
		{name: "equal numbers", a: Number(8), b: Number(8), want: 0},
		{name: "head beats any number", a: Head(), b: Number(999999), want: 1},
		{name: "number loses to head", a: Number(999999), b: Head(), want: -1},
		{name: "head equals head", a: Head(), b: Head(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.a.Less(tt.b); got != (tt.want < 0) {
				t.Errorf("Less(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want < 0)
			}
		})
	}
}

func TestRevisionString(t *testing.T) {
	t.Parallel()

	if got := Number(123).String(); got != "r123" {
		t.Errorf("Number(123).String() = %q, want %q", got, "r123")
	}
	if got := Head().String(); got != "HEAD" {
		t.Errorf("Head().String() = %q, want %q", got, "HEAD")
	}
	if got := Head().Num(); got != 0 {
		t.Errorf("Head().Num() = %d, want 0", got)
	}
}
