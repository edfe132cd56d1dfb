// Package refcount tracks how many live tool invocations reference a
// checked-out project.
//
// The count lives in one small file per project, guarded by an
// exclusive advisory lock so independent processes serialize their
// read-modify-write cycles. Teardown logic consults the counter and
// refuses to destroy a checkout another process still references.
package refcount

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Op selects the adjustment applied under the lock.
type Op int

const (
	// Increment adds one reference.
	Increment Op = iota
	// Decrement drops one reference, floored at zero.
	Decrement
	// DeleteIfZero leaves the count unchanged; callers read the returned
	// value and may tear the checkout down only when it is zero.
	DeleteIfZero
)

// Path returns the counter file for project inside dir.
func Path(dir, project string) string {
	return filepath.Join(dir, project+".lock")
}

// Adjust applies op to the counter file as one atomic critical section:
// acquire the lock (blocking until available), read, compute, truncate
// and rewrite, release. Missing or unparsable content reads as zero.
// The new value is returned.
//
// Blocking indefinitely on the lock is deliberate; the contenders are
// other cooperating invocations of this tool, not untrusted peers.
func Adjust(path string, op Op) (uint64, error) {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return 0, fmt.Errorf("lock counter %s: %w", path, err)
	}
	defer lock.Unlock()

	current := readCount(lock.File())

	var next uint64
	switch op {
	case Increment:
		next = current + 1
	case Decrement:
		if current > 0 {
			next = current - 1
		}
	case DeleteIfZero:
		next = current
	default:
		return 0, fmt.Errorf("unknown counter op %d", op)
	}

	if err := writeCount(lock.File(), next); err != nil {
		return 0, fmt.Errorf("rewrite counter %s: %w", path, err)
	}
	return next, nil
}

// Remove deletes the counter file. Call only after a DeleteIfZero
// returned zero and the guarded checkout has been torn down.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove counter %s: %w", path, err)
	}
	return nil
}

func readCount(f *os.File) uint64 {
	data := make([]byte, 32)
	n, _ := f.ReadAt(data, 0)
	v, err := strconv.ParseUint(strings.TrimSpace(string(data[:n])), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func writeCount(f *os.File, v uint64) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt([]byte(strconv.FormatUint(v, 10)), 0); err != nil {
		return err
	}
	return f.Sync()
}
