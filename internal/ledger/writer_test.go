package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

var testHeader = []string{"a", "b"}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "file.csv")
	w := NewWriter(ModeAppend)

	if err := w.Append(path, testHeader, [][]string{{"1", "2"}}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := w.Append(path, testHeader, [][]string{{"3", "4"}}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	rows := readAll(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header + 2)", len(rows))
	}
	if rows[0][0] != "a" || rows[1][0] != "1" || rows[2][0] != "3" {
		t.Errorf("unexpected content: %v", rows)
	}
}

func TestAppend_RerunDuplicatesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.csv")
	w := NewWriter(ModeAppend)

	batch := [][]string{{"1", "2"}, {"3", "4"}}
	for i := 0; i < 2; i++ {
		if err := w.Append(path, testHeader, batch); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	rows := readAll(t, path)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5 (header + 2x2 duplicates)", len(rows))
	}
}

func TestReplace_RerunIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.csv")
	w := NewWriter(ModeReplace)

	batch := [][]string{{"1", "2"}}
	for i := 0; i < 2; i++ {
		if err := w.Append(path, testHeader, batch); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	rows := readAll(t, path)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (header + 1)", len(rows))
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"append", ModeAppend, false},
		{"replace", ModeReplace, false},
		{"", ModeAppend, false},
		{"upsert", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMode(%q): want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
