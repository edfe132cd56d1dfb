package refcount

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func counterPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "widgets.lock")
}

func TestAdjustSequence(t *testing.T) {
	t.Parallel()

	path := counterPath(t)

	steps := []struct {
		op   Op
		want uint64
	}{
		{Increment, 1},
		{Increment, 2},
		{Decrement, 1},
		{DeleteIfZero, 1}, // still referenced, value unchanged
		{Decrement, 0},
		{Decrement, 0}, // floored, never negative
		{DeleteIfZero, 0},
		{Increment, 1},
	}

	for i, s := range steps {
		got, err := Adjust(path, s.op)
		if err != nil {
			t.Fatalf("step %d: Adjust: %v", i, err)
		}
		if got != s.want {
			t.Errorf("step %d: Adjust(%d) = %d, want %d", i, s.op, got, s.want)
		}
	}
}

func TestAdjustMissingFileReadsAsZero(t *testing.T) {
	t.Parallel()

	got, err := Adjust(counterPath(t), Increment)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != 1 {
		t.Errorf("Adjust(Increment) on fresh counter = %d, want 1", got)
	}
}

func TestAdjustUnparsableContentReadsAsZero(t *testing.T) {
	t.Parallel()

	path := counterPath(t)
	if err := os.WriteFile(path, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Adjust(path, DeleteIfZero)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != 0 {
		t.Errorf("Adjust(DeleteIfZero) on garbage = %d, want 0", got)
	}
}

func TestAdjustPersistsValue(t *testing.T) {
	t.Parallel()

	path := counterPath(t)
	if _, err := Adjust(path, Increment); err != nil {
		t.Fatal(err)
	}
	if _, err := Adjust(path, Increment); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "2" {
		t.Errorf("counter file content = %q, want %q", data, "2")
	}
}

func TestAdjustConcurrentNeverLosesUpdates(t *testing.T) {
	t.Parallel()

	path := counterPath(t)
	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := Adjust(path, Increment); err != nil {
					t.Errorf("Adjust: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := Adjust(path, DeleteIfZero)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != workers*perWorker {
		t.Errorf("final count = %d, want %d", got, workers*perWorker)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	path := counterPath(t)
	if _, err := Adjust(path, Increment); err != nil {
		t.Fatal(err)
	}
	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("counter file still exists after Remove")
	}

	// Removing an already-removed counter is a no-op.
	if err := Remove(path); err != nil {
		t.Errorf("Remove on missing file: %v", err)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	got := Path("/store/repo", "widgets")
	want := filepath.Join("/store/repo", "widgets.lock")
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}
