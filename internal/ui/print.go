package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Success prints a check-marked line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Green.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Warn prints a highlighted warning line.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, Yellow.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Error prints a red error line.
func Error(w io.Writer, err error) {
	fmt.Fprintln(w, Red.Render("Error:")+" "+err.Error())
}

// Field prints an aligned label/value pair.
func Field(w io.Writer, label, value string) {
	fmt.Fprintln(w, Dim.Render(fmt.Sprintf("  %-12s", label+":"))+White.Render(value))
}

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	header := Renderer.NewStyle().Foreground(lipgloss.Color("14")).Bold(true).Padding(0, 1)
	cell := Renderer.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return strings.TrimRight(t.Render(), "\n")
}
