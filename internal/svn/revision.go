package svn

import (
	"fmt"
	"strconv"
	"strings"
)

// Revision is either a concrete revision number or the symbolic HEAD
// marker. HEAD orders greater than every number.
type Revision struct {
	head bool
	n    uint64
}

// Head returns the symbolic HEAD revision.
func Head() Revision { return Revision{head: true} }

// Number returns a concrete revision.
func Number(n uint64) Revision { return Revision{n: n} }

// ParseRevision parses "123", "r123", "R123" or "HEAD" (case-insensitive).
func ParseRevision(input string) (Revision, error) {
	s := strings.TrimSpace(input)
	if strings.EqualFold(s, "HEAD") {
		return Head(), nil
	}
	s = strings.TrimLeft(s, "rR")
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Revision{}, fmt.Errorf("failed to parse revision %q", input)
	}
	return Number(n), nil
}

// IsHead reports whether r is the symbolic HEAD marker.
func (r Revision) IsHead() bool { return r.head }

// Num returns the revision number; 0 for HEAD.
func (r Revision) Num() uint64 {
	if r.head {
		return 0
	}
	return r.n
}

// Compare orders revisions: -1 if r < o, 0 if equal, 1 if r > o.
func (r Revision) Compare(o Revision) int {
	switch {
	case r.head && o.head:
		return 0
	case r.head:
		return 1
	case o.head:
		return -1
	case r.n < o.n:
		return -1
	case r.n > o.n:
		return 1
	default:
		return 0
	}
}

// Less reports whether r orders before o.
func (r Revision) Less(o Revision) bool { return r.Compare(o) < 0 }

func (r Revision) String() string {
	if r.head {
		return "HEAD"
	}
	return "r" + strconv.FormatUint(r.n, 10)
}
