package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlim/voucher-recon/internal/ledger"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recon.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: /data/transactions
snapshots:
  dir: /data/balances
output:
  ledger_dir: /data/out/ledgers
  audit_dir: /data/out/audits
run:
  policy: replace
  workers: 4
publish:
  gcs_bucket: recon-artifacts
  project: vouchers-prod
  dataset: reconciliation
  table: audit_rows
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Input.Dir != "/data/transactions" {
		t.Errorf("input.dir = %q", c.Input.Dir)
	}
	mode, err := c.Mode()
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if mode != ledger.ModeReplace {
		t.Errorf("mode = %q, want replace", mode)
	}
	if c.Run.Workers != 4 {
		t.Errorf("workers = %d, want 4", c.Run.Workers)
	}
	if c.Publish.GCSBucket != "recon-artifacts" {
		t.Errorf("gcs_bucket = %q", c.Publish.GCSBucket)
	}
}

func TestLoad_DefaultPolicyIsAppend(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: /in
snapshots:
  dir: /snap
output:
  ledger_dir: /out/l
  audit_dir: /out/a
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mode, err := c.Mode()
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if mode != ledger.ModeAppend {
		t.Errorf("mode = %q, want append", mode)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing input dir", "snapshots:\n  dir: /s\noutput:\n  ledger_dir: /l\n  audit_dir: /a\n"},
		{"missing snapshot dir", "input:\n  dir: /i\noutput:\n  ledger_dir: /l\n  audit_dir: /a\n"},
		{"missing output dirs", "input:\n  dir: /i\nsnapshots:\n  dir: /s\n"},
		{"bad policy", "input:\n  dir: /i\nsnapshots:\n  dir: /s\noutput:\n  ledger_dir: /l\n  audit_dir: /a\nrun:\n  policy: upsert\n"},
		{"negative workers", "input:\n  dir: /i\nsnapshots:\n  dir: /s\noutput:\n  ledger_dir: /l\n  audit_dir: /a\nrun:\n  workers: -1\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("want error")
	}
}
