package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/present"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

func PrintJSON(w io.Writer, data interface{}) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func PrintPage(w io.Writer, p present.Page) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Sales, page %d", p.PageNumber)))

	switch p.Status {
	case dashboard.StatusError:
		fmt.Fprintln(w, errStyle.Render(p.Error))
	case dashboard.StatusEmpty:
		fmt.Fprintln(w, mutedStyle.Render("No sales found."))
		return
	}
	if len(p.Rows) == 0 {
		return
	}

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyle
		}).
		Headers("ID", "DATE", "PRICE", "EMAIL", "PHONE")

	for _, r := range p.Rows {
		t.Row(r.ID, r.Date, r.Price, r.Email, r.Phone)
	}

	fmt.Fprintln(w, t)
	fmt.Fprintf(w, "Total %s | %d records | %d days\n", p.TotalText, p.Stats.RecordCount, p.Stats.DayCount)

	footer := fmt.Sprintf("source %s, %.2f ms", p.Last.Source, p.Last.DurMs)
	if p.HasNext {
		footer += ", more pages available"
	}
	fmt.Fprintln(w, mutedStyle.Render(footer))
}
