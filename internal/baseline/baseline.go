// Package baseline stores accepted violations so a check only fails on new ones.
package baseline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

const currentVersion = 1

// Entry is one accepted violation.
type Entry struct {
	Fingerprint string `yaml:"fingerprint"`
	Violation   string `yaml:"violation"`
}

// Baseline is the set of accepted violations, keyed by fingerprint.
type Baseline struct {
	Version int     `yaml:"version"`
	Entries []Entry `yaml:"entries"`

	index map[string]struct{}
}

// Fingerprint hashes the rendered violation. Positions are left out so moving code
// around does not invalidate the baseline.
func Fingerprint(v schema.Violation) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(v.String()))
}

// New builds a baseline accepting every violation in vs.
func New(vs []schema.Violation) *Baseline {
	b := &Baseline{Version: currentVersion}
	seen := make(map[string]struct{}, len(vs))
	for _, v := range vs {
		fp := Fingerprint(v)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		b.Entries = append(b.Entries, Entry{Fingerprint: fp, Violation: v.String()})
	}
	sort.Slice(b.Entries, func(i, j int) bool { return b.Entries[i].Violation < b.Entries[j].Violation })
	b.index = seen
	return b
}

// Load reads a baseline file.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	b := &Baseline{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(b); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Version > currentVersion {
		return nil, fmt.Errorf("baseline %s: unsupported version %d", path, b.Version)
	}
	b.index = make(map[string]struct{}, len(b.Entries))
	for _, e := range b.Entries {
		b.index[e.Fingerprint] = struct{}{}
	}
	return b, nil
}

// Write stores a baseline accepting vs at path, creating parent directories.
func Write(path string, vs []schema.Violation) error {
	data, err := yaml.Marshal(New(vs))
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	return nil
}

// Len returns the number of accepted violations.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entries)
}

// Filter splits vs into violations not covered by the baseline and the number of
// suppressed ones. Order is preserved. A nil baseline keeps everything.
func (b *Baseline) Filter(vs []schema.Violation) (kept []schema.Violation, suppressed int) {
	if b == nil || len(b.index) == 0 {
		return vs, 0
	}
	kept = make([]schema.Violation, 0, len(vs))
	for _, v := range vs {
		if _, ok := b.index[Fingerprint(v)]; ok {
			suppressed++
			continue
		}
		kept = append(kept, v)
	}
	return kept, suppressed
}
