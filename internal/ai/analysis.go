package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klytics/cellgrid/internal/engine"
)

const chartSystemPrompt = `You are a data visualization assistant. You are given a
spreadsheet grid as tab-separated values with A1-style headers. Suggest the single
most useful chart for this data.

Respond with ONLY a JSON object, no prose, with these fields:
  "type":   one of "bar", "line", "pie", "scatter"
  "title":  a short chart title
  "xRange": the A1-style range to use for the x axis or labels (e.g. "A2:A10")
  "yRange": the A1-style range to use for the values (e.g. "B2:B10")
  "reason": one sentence explaining the choice`

// ChartSuggestion is the model's recommended chart for a grid.
type ChartSuggestion struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	XRange string `json:"xRange"`
	YRange string `json:"yRange"`
	Reason string `json:"reason"`
}

// RenderGrid formats a sheet's computed values as tab-separated rows
// with a column-letter header, the form prompts consume.
func RenderGrid(sheet *engine.Sheet) string {
	rows, cols := sheet.Store().Bounds()
	if rows == 0 || cols == 0 {
		return "(empty grid)"
	}

	var buf strings.Builder
	headers := make([]string, cols+1)
	for c := 0; c < cols; c++ {
		headers[c+1] = columnLabel(c)
	}
	buf.WriteString(strings.Join(headers, "\t"))
	buf.WriteByte('\n')

	for r := 0; r < rows; r++ {
		fields := make([]string, cols+1)
		fields[0] = fmt.Sprintf("%d", r+1)
		for c := 0; c < cols; c++ {
			fields[c+1] = sheet.DisplayValue(r, c)
		}
		buf.WriteString(strings.Join(fields, "\t"))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// columnLabel is the letter part of an A1 reference for a zero-based
// column index (A, B, ..., Z, AA, ...).
func columnLabel(col int) string {
	label := engine.FormatRef(engine.Coord{Row: 0, Col: col})
	return strings.TrimSuffix(label, "1")
}

// SuggestChart asks the provider for a chart recommendation and parses
// its JSON reply.
func SuggestChart(ctx context.Context, provider Provider, sheet *engine.Sheet) (*ChartSuggestion, error) {
	if sheet.Store().Len() == 0 {
		return nil, fmt.Errorf("the grid is empty — load or set some data first")
	}

	prompt := "Here is the grid:\n\n" + RenderGrid(sheet)
	result, err := provider.Infer(ctx, chartSystemPrompt, []Message{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, err
	}

	suggestion, err := parseChartSuggestion(result.Content)
	if err != nil {
		return nil, fmt.Errorf("could not parse chart suggestion from %s: %w", provider.Name(), err)
	}
	return suggestion, nil
}

// parseChartSuggestion extracts the JSON object from a model reply,
// tolerating surrounding prose or code fences.
func parseChartSuggestion(content string) (*ChartSuggestion, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var suggestion ChartSuggestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &suggestion); err != nil {
		return nil, err
	}

	switch suggestion.Type {
	case "bar", "line", "pie", "scatter":
	default:
		return nil, fmt.Errorf("unsupported chart type %q", suggestion.Type)
	}
	return &suggestion, nil
}
