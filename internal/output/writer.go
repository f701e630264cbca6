// Package output gestisce la scrittura del report.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/codellm-devkit/docanalyzer-go/pkg/schema"
)

// Format rappresenta il formato di output supportato.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Write scrive i report nel formato specificato.
func Write(w io.Writer, reports []*schema.Report, format Format) error {
	switch format {
	case FormatText, "":
		return writeText(w, reports)
	case FormatJSON:
		return writeJSON(w, reports)
	case FormatYAML:
		return writeYAML(w, reports)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteToFile scrive direttamente su un file specificato.
func WriteToFile(filePath string, reports []*schema.Report, format Format) error {
	// Crea directory se non esiste
	dir := filepath.Dir(filePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := Write(f, reports, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Line renders one violation, prefixed with its position when known.
func Line(v schema.Violation) string {
	s := v.String()
	if p := v.Symbol.Position; p != nil && p.File != "" {
		s = fmt.Sprintf("%s:%d: %s", p.File, p.Line, s)
	}
	if v.Detail != "" {
		s += " (" + v.Detail + ")"
	}
	return s
}

// writeText stampa una riga per violazione e un riepilogo per root.
func writeText(w io.Writer, reports []*schema.Report) error {
	bw := bufio.NewWriter(w)
	for _, r := range reports {
		for _, v := range r.Violations {
			fmt.Fprintln(bw, Line(v))
		}
		fmt.Fprintf(bw, "%s: %d symbols checked, %d violations", r.Metadata.Root, r.Checked, len(r.Violations))
		if r.Suppressed > 0 {
			fmt.Fprintf(bw, ", %d suppressed by baseline", r.Suppressed)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// un solo root produce un oggetto, piu' root una lista
func payload(reports []*schema.Report) any {
	if len(reports) == 1 {
		return reports[0]
	}
	return reports
}

func writeJSON(w io.Writer, reports []*schema.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// Assicura che i caratteri speciali non siano escaped
	enc.SetEscapeHTML(false)

	if err := enc.Encode(payload(reports)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, reports []*schema.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(payload(reports)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
