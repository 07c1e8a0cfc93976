package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/ilkoid/plenty-api/pkg/plenty"
)

const outputWidth = 100

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#86AAEC"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5555"))
)

// runSummary - метаданные запуска.
type runSummary struct {
	Command   string
	RunID     string
	Duration  time.Duration
	ExportKey string
}

// printer применяет стили, если цвет не отключён.
type printer struct {
	w       io.Writer
	noColor bool
}

func (p printer) style(s lipgloss.Style, text string) string {
	if p.noColor {
		return text
	}
	return s.Render(text)
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintln(p.w, wrap.String(fmt.Sprintf(format, args...), outputWidth))
}

// printHuman выводит результат в человекочитаемом формате.
func printHuman(w io.Writer, summary runSummary, result any, noColor bool) {
	p := printer{w: w, noColor: noColor}

	p.line("%s", p.style(titleStyle, "=== "+summary.Command+" ==="))
	fmt.Fprintln(w)

	switch v := result.(type) {
	case []map[string]any:
		p.line("Records: %d", len(v))
		for _, rec := range v {
			p.line("  %s %s", p.style(keyStyle, fmt.Sprintf("#%v", rec["id"])), compact(rec))
		}
	case []plenty.Variation:
		p.line("Variations: %d", len(v))
		for _, variation := range v {
			p.line("  %s %s (item %d)", p.style(keyStyle, fmt.Sprintf("#%d", variation.ID)), variation.Number, variation.ItemID)
		}
	case []plenty.Manufacturer:
		p.line("Manufacturers: %d", len(v))
		for _, m := range v {
			p.line("  %s %s", p.style(keyStyle, fmt.Sprintf("#%d", m.ID)), m.Name)
		}
	case map[string]plenty.VATConfig:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		p.line("Countries: %d", len(v))
		for _, k := range keys {
			p.line("  %s TaxId=%s config=[%s]", p.style(keyStyle, "country "+k), v[k].TaxID, strings.Join(v[k].Config, ", "))
		}
	case []plenty.ShrunkSalesPrice:
		p.line("Price configurations: %d", len(v))
		for _, price := range v {
			p.line("  %s %s names=%v currencies=%v referrers=%v",
				p.style(keyStyle, fmt.Sprintf("#%d", price.ID)), price.Type, price.Names, price.Currencies, price.Referrers)
		}
	case []plenty.Attribute:
		p.line("Attributes: %d", len(v))
		for _, a := range v {
			p.line("  %s %s", p.style(keyStyle, fmt.Sprintf("#%d", a.ID)), a.BackendName)
			for _, value := range a.Values {
				linked := ""
				if len(value.LinkedVariations) > 0 {
					linked = fmt.Sprintf(" variations=%v", value.LinkedVariations)
				}
				p.line("    value #%d %s%s", value.ID, value.BackendName, linked)
			}
		}
	default:
		p.line("%v", v)
	}

	fmt.Fprintln(w)
	p.line("%s", p.style(dimStyle, fmt.Sprintf("Run: %s  Duration: %s", summary.RunID, formatDuration(summary.Duration))))
	if summary.ExportKey != "" {
		p.line("%s", p.style(dimStyle, "Exported: "+summary.ExportKey))
	}
}

// printJSON выводит результат в JSON формате.
func printJSON(w io.Writer, summary runSummary, result any) error {
	out := struct {
		Command    string `json:"command"`
		RunID      string `json:"run_id"`
		DurationMs int64  `json:"duration_ms"`
		ExportKey  string `json:"export_key,omitempty"`
		Result     any    `json:"result"`
	}{
		Command:    summary.Command,
		RunID:      summary.RunID,
		DurationMs: summary.Duration.Milliseconds(),
		ExportKey:  summary.ExportKey,
		Result:     result,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printError выводит ошибку с подсказкой по её типу.
func printError(w io.Writer, err error, noColor bool) {
	p := printer{w: w, noColor: noColor}
	kind := plenty.ClassifyError(err)
	p.line("%s %v", p.style(errorStyle, "Error:"), err)
	if kind != plenty.ErrUnknown {
		p.line("%s", kind.HumanMessage())
	}
}

// compact - короткое однострочное представление записи.
func compact(rec map[string]any) string {
	keys := make([]string, 0, len(rec))
	for k, v := range rec {
		if k == "id" {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, rec[k]))
	}
	return truncate(strings.Join(parts, " "), 160)
}

// formatDuration форматирует длительность в человекочитаемый формат.
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	sec := ms / 1000
	if sec < 60 {
		return fmt.Sprintf("%ds", sec)
	}
	min := sec / 60
	sec = sec % 60
	return fmt.Sprintf("%dm %ds", min, sec)
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
