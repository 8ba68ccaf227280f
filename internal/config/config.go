// Package config loads the YAML run configuration for the reconciler
// commands. Flags may override individual fields in the commands; the
// file is the durable description of where a deployment keeps its data.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jlim/voucher-recon/internal/ledger"
)

type InputConfig struct {
	Dir        string   `yaml:"dir"`        // directory scanned for transaction files
	Extensions []string `yaml:"extensions"` // recognized extensions, default [.csv]
}

type SnapshotConfig struct {
	Dir string `yaml:"dir"` // directory holding RedemptionBalance<HourKey>.csv files
}

type OutputConfig struct {
	LedgerDir string `yaml:"ledger_dir"` // Redeem<HourKey>.csv destination
	AuditDir  string `yaml:"audit_dir"`  // Audit<HourKey>.csv destination
}

type RunConfig struct {
	Policy  string `yaml:"policy"`  // append (default) or replace
	Workers int    `yaml:"workers"` // audit fan-out; <2 runs sequentially
}

// PublishConfig describes the optional post-run export target. Left empty
// when a deployment keeps everything local.
type PublishConfig struct {
	GCSBucket string `yaml:"gcs_bucket"`
	GCSPrefix string `yaml:"gcs_prefix"`
	Project   string `yaml:"project"`
	Dataset   string `yaml:"dataset"`
	Table     string `yaml:"table"`
}

type Config struct {
	Input     InputConfig    `yaml:"input"`
	Snapshots SnapshotConfig `yaml:"snapshots"`
	Output    OutputConfig   `yaml:"output"`
	Run       RunConfig      `yaml:"run"`
	Publish   PublishConfig  `yaml:"publish"`
}

// Mode returns the validated write policy.
func (c Config) Mode() (ledger.Mode, error) {
	return ledger.ParseMode(c.Run.Policy)
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Input.Dir == "" {
		return errors.New("input.dir is required")
	}
	if c.Snapshots.Dir == "" {
		return errors.New("snapshots.dir is required")
	}
	if c.Output.LedgerDir == "" || c.Output.AuditDir == "" {
		return errors.New("output.ledger_dir and output.audit_dir are required")
	}
	if _, err := c.Mode(); err != nil {
		return fmt.Errorf("run.policy: %w", err)
	}
	if c.Run.Workers < 0 {
		return errors.New("run.workers must not be negative")
	}
	return nil
}
