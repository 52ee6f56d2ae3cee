// Package report renders monthly budget reports as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"budgetbook/internal/core"
)

// Data is everything a report needs, already aggregated by the caller.
type Data struct {
	Totals       core.MonthlySummary
	Categories   []core.CategorySummary
	Transactions []core.Transaction
	PeriodLabel  string
}

// excerptSize caps the transaction listing at the most recent records.
const excerptSize = 20

const margin = 20.0

// Generator renders reports. The clock is injectable for tests.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a report generator using the system clock.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate renders an A4 portrait report and returns the PDF bytes.
func (g *Generator) Generate(data Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pageWidth, pageHeight := pdf.GetPageSize()

	generatedOn := g.now().UTC().Format("2006-01-02")
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetFont("Helvetica", "", 8)
		footer := fmt.Sprintf("Generated on %s - Page %d of {nb}", generatedOn, pdf.PageNo())
		pdf.Text((pageWidth-pdf.GetStringWidth(footer))/2, pageHeight-10, footer)
	})
	pdf.AddPage()

	y := margin

	// Title
	pdf.SetFont("Helvetica", "B", 24)
	g.centered(pdf, pageWidth, y, "Budget Tracker Report")
	y += 20
	pdf.SetFont("Helvetica", "", 14)
	g.centered(pdf, pageWidth, y, data.PeriodLabel)
	y += 30

	// Monthly summary
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(margin, y, "Monthly Summary")
	y += 15
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(margin, y, fmt.Sprintf("Income: $%s", data.Totals.Income))
	y += 10
	pdf.Text(margin, y, fmt.Sprintf("Expenses: $%s", data.Totals.Expenses))
	y += 10
	pdf.Text(margin, y, fmt.Sprintf("Balance: $%s", data.Totals.Balance))
	y += 25

	// Category breakdown
	if len(data.Categories) > 0 {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.Text(margin, y, "Expense Categories")
		y += 15

		pdf.SetFont("Helvetica", "", 12)
		for _, c := range data.Categories {
			if y > 250 {
				pdf.AddPage()
				y = margin
			}
			line := fmt.Sprintf("%s: $%s (%.1f%%)", core.CategoryName(core.Expense, c.Category), c.Amount, c.Percentage)
			pdf.Text(margin, y, line)
			y += 10
		}
		y += 15
	}

	// Recent transactions
	pdf.SetFont("Helvetica", "B", 18)
	if y > 220 {
		pdf.AddPage()
		y = margin
	}
	pdf.Text(margin, y, "Recent Transactions")
	y += 15

	pdf.SetFont("Helvetica", "", 10)
	excerpt := data.Transactions
	if len(excerpt) > excerptSize {
		excerpt = excerpt[:excerptSize]
	}
	for _, t := range excerpt {
		if y > 270 {
			pdf.AddPage()
			y = margin
		}
		sign := "-"
		if t.Kind == core.Income {
			sign = "+"
		}
		pdf.Text(margin, y, t.Date.String())
		pdf.Text(margin+40, y, t.Description)
		pdf.Text(margin+120, y, core.CategoryName(t.Kind, t.Category))
		pdf.Text(margin+160, y, fmt.Sprintf("%s$%s", sign, t.Amount))
		y += 8
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) centered(pdf *gofpdf.Fpdf, pageWidth, y float64, text string) {
	pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, y, text)
}

// Filename derives the download name from the period label,
// e.g. "March 2024" becomes "budget-report-march-2024.pdf".
func Filename(periodLabel string) string {
	slug := strings.ToLower(strings.ReplaceAll(periodLabel, " ", "-"))
	return fmt.Sprintf("budget-report-%s.pdf", slug)
}
