package svn

import (
	"fmt"
	"strings"
)

// ValidateName rejects project and branch names that would break URL or
// path construction: empty names, path separators, revision separators
// and leading dots.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name must not be empty")
	}
	if trimmed != name {
		return fmt.Errorf("name %q must not contain leading or trailing whitespace", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name %q is reserved", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("name %q must not start with a dot", name)
	}
	if strings.ContainsAny(name, "/\\@") {
		return fmt.Errorf("name %q must not contain '/', '\\' or '@'", name)
	}
	return nil
}
