package integration

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"phrasex/internal/app"
)

// cancelOnWrite cancels the run as soon as the first output reaches it.
type cancelOnWrite struct {
	once   sync.Once
	cancel context.CancelFunc
}

func (w *cancelOnWrite) Write(p []byte) (int, error) {
	w.once.Do(w.cancel)
	return len(p), nil
}

func TestCancelMidRunExit130(t *testing.T) {
	dir := t.TempDir()
	line := "a b c d e f g h ||| s t u v w x y z ||| 0-0 1-1 2-2 3-3 4-4 5-5 6-6 7-7\n"
	fn := write(t, filepath.Join(dir, "big.txt"), strings.Repeat(line, 50000))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &cancelOnWrite{cancel: cancel}

	code := app.RunContext(ctx, []string{"-q", "-t", "2", fn}, w, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
