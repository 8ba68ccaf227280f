// Package ledger writes hour-named CSV output files. The default mode is
// append-only: a file is never truncated and its header is written exactly
// once, so re-running a batch over the same inputs appends duplicate rows.
// ModeReplace trades that for per-bucket idempotency by rewriting each
// file from scratch.
package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Mode selects how a bucket file is written.
type Mode string

const (
	// ModeAppend appends rows, writing the header only when the file is
	// created. Reruns accumulate duplicate rows.
	ModeAppend Mode = "append"
	// ModeReplace truncates the bucket file and rewrites header plus rows.
	ModeReplace Mode = "replace"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAppend, ModeReplace:
		return Mode(s), nil
	case "":
		return ModeAppend, nil
	default:
		return "", fmt.Errorf("unknown write mode %q (want %q or %q)", s, ModeAppend, ModeReplace)
	}
}

// Writer persists rows to hour-named CSV files under a fixed mode.
type Writer struct {
	mode Mode
}

// NewWriter returns a Writer using the given mode.
func NewWriter(mode Mode) *Writer {
	if mode == "" {
		mode = ModeAppend
	}
	return &Writer{mode: mode}
}

// Append writes rows to path in the writer's mode, creating parent
// directories as needed. Under ModeAppend the header is written only if
// the file did not already exist; existing content is never rewritten.
func (w *Writer) Append(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	writeHeader := true
	if w.mode == ModeReplace {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
		_, err := os.Stat(path)
		switch {
		case err == nil:
			writeHeader = false
		case os.IsNotExist(err):
			writeHeader = true
		default:
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if writeHeader {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header to %s: %w", path, err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
