// Package ui renders ifxgo output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cast"
)

// Palette
var (
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	TitleStyle     = fg(PrimaryColor).Bold(true)
	SuccessStyle   = fg(SuccessColor).Bold(true)
	ErrorStyle     = fg(ErrorColor).Bold(true)
	WarningStyle   = fg(WarningColor).Bold(true)
	InfoStyle      = fg(PrimaryColor)
	SecondaryStyle = fg(SecondaryColor)
)

// Out is where everything except errors is written.
var Out io.Writer = os.Stdout

var headerBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(PrimaryColor).
	Padding(0, 2)

// PrintHeader prints a title and subtitle in a rounded box
func PrintHeader(title, subtitle string) {
	body := lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), SecondaryStyle.Render(subtitle))
	fmt.Fprintln(Out, headerBox.Render(body))
}

func status(w io.Writer, style lipgloss.Style, mark, format string, args []interface{}) {
	fmt.Fprintln(w, style.Render(mark+" "+fmt.Sprintf(format, args...)))
}

// PrintSuccess prints a success line
func PrintSuccess(format string, args ...interface{}) { status(Out, SuccessStyle, "✓", format, args) }

// PrintError prints an error line to stderr
func PrintError(format string, args ...interface{}) {
	status(os.Stderr, ErrorStyle, "✗", format, args)
}

// PrintWarning prints a warning line
func PrintWarning(format string, args ...interface{}) { status(Out, WarningStyle, "⚠", format, args) }

// PrintInfo prints an info line
func PrintInfo(format string, args ...interface{}) { status(Out, InfoStyle, "ℹ", format, args) }

// PrintEvent prints a timestamped line, used while watching files.
func PrintEvent(format string, args ...interface{}) {
	stamp := color.New(color.FgHiBlack).Sprintf("[%s]", time.Now().Format("15:04:05"))
	fmt.Fprintf(Out, "%s %s\n", stamp, fmt.Sprintf(format, args...))
}

// PrintTable prints rows under a header row
func PrintTable(headers []string, rows [][]string) error {
	data := append(pterm.TableData{headers}, rows...)
	return pterm.DefaultTable.WithHasHeader().WithWriter(Out).WithData(data).Render()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Fprintf(Out, "  • %s\n", item)
	}
}

// PrintMarkdown renders markdown for the terminal
func PrintMarkdown(md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	rendered, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(Out, rendered)
	return err
}

// PrintSQL prints statements, one per line, each terminated by a semicolon.
// Keywords are highlighted when the output is a terminal.
func PrintSQL(stmts []string) {
	kw := color.New(color.FgCyan, color.Bold)
	for _, s := range stmts {
		fields := strings.SplitN(s, " ", 2)
		if len(fields) == 2 {
			fmt.Fprintf(Out, "%s %s;\n", kw.Sprint(fields[0]), fields[1])
			continue
		}
		fmt.Fprintf(Out, "%s;\n", kw.Sprint(s))
	}
}

// FormatValue renders a column value for a table cell.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return SecondaryStyle.Render("NULL")
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// MarkdownTable builds a GitHub style markdown table.
func MarkdownTable(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}
