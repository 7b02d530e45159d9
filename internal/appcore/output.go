// internal/appcore/output.go
package appcore

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// OpenOutput resolves the destination for rows. An empty path or "-" is
// stdout; a path ending in .gz is gzip-compressed. The returned close
// function flushes and closes whatever was opened.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, fh.Close, nil
	}
	gw := gzip.NewWriter(fh)
	return gw, func() error {
		gerr := gw.Close()
		ferr := fh.Close()
		if gerr != nil {
			return gerr
		}
		return ferr
	}, nil
}
