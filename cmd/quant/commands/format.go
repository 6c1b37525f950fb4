package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/rs-screener/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// screeningColumns is the ranked table layout
var (
	screeningColumns = []string{"#", "Symbol", "Sector", "RS%", "12M%", "Vol%", "Quality", "Score", "Signal", "Risk"}
	screeningWidths  = []int{3, 12, 16, 5, 7, 6, 8, 6, 6, 4}
)

// PrintSeparator prints a visual separator
func PrintSeparator(w io.Writer) {
	fmt.Fprintln(w, singleLine)
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator(w io.Writer) {
	fmt.Fprintln(w, doubleLine)
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(w io.Writer, columns []string, widths []int) {
	PrintTableRow(w, columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Fprintln(w, strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row, truncating values to their column
func PrintTableRow(w io.Writer, values []string, widths []int) {
	cells := make([]string, len(values))
	for i, val := range values {
		cells[i] = fmt.Sprintf("%-*s", widths[i], clip(val, widths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintRunHeader prints the run metadata block
func PrintRunHeader(w io.Writer, run *contracts.ScreeningRun) {
	fmt.Fprintln(w)
	PrintDoubleSeparator(w)
	fmt.Fprintf(w, "  %s Screening\n", run.Strategy.DisplayName())
	PrintSeparator(w)
	if run.ID > 0 {
		PrintKeyValue(w, "Run ID", fmt.Sprintf("#%d", run.ID), 9)
	}
	PrintKeyValue(w, "Date", run.RunDate.Format("2006-01-02"), 9)
	PrintKeyValue(w, "Universe", fmt.Sprintf("%d", run.UniverseSize), 9)
	PrintKeyValue(w, "Matched", fmt.Sprintf("%d", run.Matched), 9)
	for _, f := range run.Filters {
		PrintKeyValue(w, "  -"+f.Filter, fmt.Sprintf("%d removed", f.Removed), 9)
	}
	if len(run.ConfigHash) >= 12 {
		PrintKeyValue(w, "Config", run.ConfigHash[:12], 9)
	}
	PrintSeparator(w)
}

// PrintScreeningTable prints the ranked records; limit <= 0 prints all
func PrintScreeningTable(w io.Writer, records []contracts.ScreeningRecord, limit int) {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	PrintTableHeader(w, screeningColumns, screeningWidths)
	for _, rec := range records {
		PrintTableRow(w, []string{
			fmt.Sprintf("%d", rec.Position),
			rec.Symbol,
			rec.Sector,
			formatNum(rec.RS.Percentile, 0),
			formatNum(rec.Returns.Return12M, 1),
			formatNum(rec.Returns.Volatility, 1),
			formatQuality(rec),
			fmt.Sprintf("%.1f", rec.CompositeScore),
			string(rec.Signal),
			fmt.Sprintf("%d", rec.RiskScore),
		}, screeningWidths)
	}
}

// PrintRunSummary prints the aggregate block under the table
func PrintRunSummary(w io.Writer, s contracts.RunSummary) {
	PrintSeparator(w)
	PrintKeyValue(w, "Signals", fmt.Sprintf("BUY %d / WATCH %d / AVOID %d", s.BuyCount, s.WatchCount, s.AvoidCount), 12)
	PrintKeyValue(w, "Avg RS", formatNum(s.AvgRSPercentile, 1), 12)
	PrintKeyValue(w, "Avg Quality", formatNum(s.AvgQuality, 1), 12)
	PrintKeyValue(w, "Avg Vol", formatNum(s.AvgVolatility, 1), 12)
	PrintKeyValue(w, "RS >= 90", fmt.Sprintf("%d", s.HighMomentum), 12)

	sectors := make([]string, len(s.TopSectors))
	for i, sc := range s.TopSectors {
		sectors[i] = fmt.Sprintf("%s (%d)", sc.Sector, sc.Count)
	}
	if len(sectors) > 0 {
		PrintKeyValue(w, "Top sectors", strings.Join(sectors, ", "), 12)
	}
	PrintDoubleSeparator(w)
}

// formatNum renders a missing value as "-"
func formatNum(n contracts.Num, precision int) string {
	v, ok := n.Get()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, v)
}

func formatQuality(rec contracts.ScreeningRecord) string {
	if !rec.Quality.Valid {
		return "-"
	}
	return fmt.Sprintf("%.0f %s", rec.Quality.V, rec.QualityGrade)
}

// clip shortens s to width runes
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
