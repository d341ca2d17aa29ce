package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rshade/mindtool/internal/cli/pagination"
	"github.com/rshade/mindtool/internal/config"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// maxCellLen truncates long free-text cells in table output.
const maxCellLen = 50

// ErrUnsupportedFormat is returned for an --output value other than table, json or yaml.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// resolveFormat returns the effective output format. An empty flag selects the
// configured default.
func resolveFormat(flag string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flag))
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s (valid: table, json, yaml)", ErrUnsupportedFormat, flag)
	}
}

// listDocument is the json/yaml shape of a list command's output.
type listDocument[T any] struct {
	Items []T                 `json:"items" yaml:"items"`
	Meta  pagination.ListMeta `json:"meta"  yaml:"meta"`
}

// writeStructured encodes v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2) //nolint:mnd // Conventional YAML indent.
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// column is one table column.
type column[T any] struct {
	header string
	value  func(T) string
}

// renderTable writes items as an aligned table with a header row.
func renderTable[T any](w io.Writer, cols []column[T], items []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	headers := make([]string, len(cols))
	rules := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
		rules[i] = strings.Repeat("-", len(c.header))
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))

	cells := make([]string, len(cols))
	for _, item := range items {
		for i, c := range cols {
			cells[i] = truncate(sanitizeCell(c.value(item)), maxCellLen)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

// writeListFooter summarizes what was loaded and how to get more.
func writeListFooter(w io.Writer, meta pagination.ListMeta) {
	fmt.Fprintf(w, "\n%d item(s) from %d page(s)", meta.TotalItems, meta.PagesLoaded)
	if meta.Sort != "" {
		fmt.Fprintf(w, ", sorted by %s", meta.Sort)
	}
	if meta.Tags != "" {
		fmt.Fprintf(w, ", tags %s", meta.Tags)
	}
	fmt.Fprintln(w, ".")
	if meta.HasMore {
		fmt.Fprintf(w, "More results are available. Use --pages %d or --all to load more.\n", meta.PagesLoaded+1)
	}
}

func sanitizeCell(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
