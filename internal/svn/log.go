package svn

import (
	"context"
	"encoding/xml"
	"fmt"
)

// LogPath is one changed path inside a log entry.
type LogPath struct {
	Action       string `xml:"action,attr"`
	CopyFromPath string `xml:"copyfrom-path,attr"`
	CopyFromRev  uint64 `xml:"copyfrom-rev,attr"`
	Path         string `xml:",chardata"`
}

// LogEntry is one revision of an XML log. With merge tracking (-g) an
// entry carries the merged revisions as nested children.
type LogEntry struct {
	Revision uint64     `xml:"revision,attr"`
	Date     string     `xml:"date"`
	Message  string     `xml:"msg"`
	Paths    []LogPath  `xml:"paths>path"`
	Children []LogEntry `xml:"logentry"`
}

type xmlLog struct {
	Entries []LogEntry `xml:"logentry"`
}

// ParseLog parses svn log --xml output into entries, newest first.
func ParseLog(data []byte) ([]LogEntry, error) {
	var doc xmlLog
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse log xml: %w", err)
	}
	return doc.Entries, nil
}

// LogKind selects the argument set for XML log queries.
type LogKind int

const (
	// LogDefault is a verbose, quiet log with changed paths.
	LogDefault LogKind = iota
	// LogProject is a merge-tracked log limited to the current copy lineage.
	LogProject
	// LogProjectFull is a merge-tracked log over the full history.
	LogProjectFull
	// LogCopyAnchor is the newest entry of a copied path, stopping on
	// the copy itself.
	LogCopyAnchor
	// LogCopyOrigin is the oldest entry of a copied path, i.e. its
	// creation.
	LogCopyOrigin
)

// XMLLog fetches and parses the XML log of url.
func (c *Client) XMLLog(ctx context.Context, kind LogKind, url string) ([]LogEntry, error) {
	var args []string
	switch kind {
	case LogProject:
		args = []string{"-v", "-g", "--xml", "--stop-on-copy", "--limit", "100", url}
	case LogProjectFull:
		args = []string{"-v", "-g", "--xml", url}
	case LogCopyAnchor:
		args = []string{"-v", "--xml", "--stop-on-copy", "--limit", "1", url}
	case LogCopyOrigin:
		args = []string{"-v", "--xml", "--stop-on-copy", "--limit", "1", "-r", "1:HEAD", url}
	default:
		args = []string{"-v", "-q", "--xml", url}
	}
	out, err := c.Log(ctx, args...)
	if err != nil {
		return nil, err
	}
	return ParseLog([]byte(out))
}

// CopySource returns the first copy origin recorded in entries.
// Used to resolve what a tag or branch was copied from.
func CopySource(entries []LogEntry) (LogPath, bool) {
	for _, e := range entries {
		for _, p := range e.Paths {
			if p.CopyFromRev != 0 {
				return p, true
			}
		}
	}
	return LogPath{}, false
}

// DeletionRevision scans a log for the newest revision that deleted a path
// ending in suffix (e.g. "/branches/name" or a leading project segment).
// Returns 0 when no deletion is recorded.
func DeletionRevision(entries []LogEntry, match func(path string) bool) uint64 {
	for _, entry := range entries {
		for _, p := range entry.Paths {
			if p.Action == "D" && match(p.Path) {
				return entry.Revision
			}
		}
	}
	return 0
}
