package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"millwright/judgment/pkg/mining"
)

// ErrNoRule is returned by SaveRule when the run produced no rule.
var ErrNoRule = errors.New("run produced no rule")

// RuleDocument is the persisted form of a fused rule.
type RuleDocument struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Screened    int                  `json:"screened" yaml:"screened"`
	Dropped     int                  `json:"dropped" yaml:"dropped"`
	Rule        mining.CandidateRule `json:"rule" yaml:"rule"`
}

// SaveRule writes the fused rule of res to path. The format follows the
// extension: .json writes JSON, anything else YAML. The file is replaced
// atomically so watchers never observe a partial document.
func SaveRule(path string, res *Result) error {
	if res == nil || res.Rule == nil {
		return ErrNoRule
	}

	doc := RuleDocument{
		RunID:       res.RunID,
		GeneratedAt: time.Now().UTC(),
		Screened:    res.Screened,
		Dropped:     res.Dropped,
		Rule:        *res.Rule,
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode rule: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".judgment-rule-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write rule: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save rule to %s: %w", path, err)
	}
	return nil
}

// LoadRule reads a document written by SaveRule.
func LoadRule(path string) (*RuleDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var doc RuleDocument
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	return &doc, nil
}
