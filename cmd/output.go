package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kilianp07/cpm/pkg/export"
)

const timeLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// encode writes rep as json, yaml or csv.
func encode(w io.Writer, format string, rep export.Report) error {
	switch strings.ToLower(format) {
	case "json":
		return export.WriteJSON(w, rep)
	case "yaml", "yml":
		return export.WriteYAML(w, rep)
	case "csv":
		return export.WriteCSV(w, rep)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
