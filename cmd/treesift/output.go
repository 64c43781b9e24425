package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertwitch/treesift/internal/bytesize"
	"github.com/desertwitch/treesift/internal/filter"
	"github.com/desertwitch/treesift/internal/search"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Format is an output format of the results.
type Format string

const (
	// FormatTable prints an aligned table of paths and attributes.
	FormatTable Format = "table"
	// FormatYAML prints the results as an ordered YAML mapping.
	FormatYAML Format = "yaml"
	// FormatJSON prints the results as an ordered JSON object.
	FormatJSON Format = "json"
	// FormatPaths prints one matching path per line.
	FormatPaths Format = "paths"
)

//nolint:gochecknoglobals
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "paths":
		return FormatPaths, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: table, yaml, json, paths)", ErrInvalidFormat, s)
	}
}

// Printer writes results to a writer in one [Format].
type Printer struct {
	out    io.Writer
	format Format
	now    func() time.Time
}

// NewPrinter returns a pointer to a new [Printer].
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{
		out:    out,
		format: format,
		now:    time.Now,
	}
}

// PrintResults writes a result set.
func (p *Printer) PrintResults(rs *search.ResultSet) error {
	switch p.format {
	case FormatPaths:
		return p.PrintPaths(rs.Paths())

	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rs); err != nil {
			return fmt.Errorf("(output) failed to encode json: %w", err)
		}

		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2) //nolint:mnd
		if err := enc.Encode(rs); err != nil {
			return fmt.Errorf("(output) failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("(output) failed to close yaml encoder: %w", err)
		}

		return nil

	default:
		return p.printTable(rs)
	}
}

// PrintPaths writes one path per line.
func (p *Printer) PrintPaths(paths []string) error {
	for _, path := range paths {
		if _, err := fmt.Fprintln(p.out, path); err != nil {
			return fmt.Errorf("(output) failed to write: %w", err)
		}
	}

	return nil
}

// PrintFingerprint writes the fingerprint of a result set.
func (p *Printer) PrintFingerprint(rs *search.ResultSet) error {
	if _, err := fmt.Fprintln(p.out, rs.Fingerprint()); err != nil {
		return fmt.Errorf("(output) failed to write: %w", err)
	}

	return nil
}

func (p *Printer) printTable(rs *search.ResultSet) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PATH", "TYPE", "SIZE", "MODIFIED").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	for path, rec := range rs.All() {
		t.Row(path, entryType(rec), p.formatSize(rec), p.formatTime(rec))
	}

	if _, err := fmt.Fprintln(p.out, t.Render()); err != nil {
		return fmt.Errorf("(output) failed to write: %w", err)
	}

	return nil
}

func entryType(rec filter.Record) string {
	if rec.Dir {
		return "dir"
	}

	return "file"
}

func (p *Printer) formatSize(rec filter.Record) string {
	if !rec.Has(filter.KindSize) {
		return "-"
	}

	return bytesize.Format(rec.Size)
}

func (p *Printer) formatTime(rec filter.Record) string {
	if !rec.Has(filter.KindTime) {
		return "-"
	}

	return humanize.RelTime(time.Unix(rec.ModifiedAt, 0), p.now(), "ago", "from now")
}
