package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klytics/cellgrid/internal/engine"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Infer(ctx context.Context, system string, messages []Message) (*InferResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &InferResult{Content: f.reply, Model: "fake"}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider("cortex", ""); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProviderMissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewProvider("anthropic", ""); err == nil {
		t.Error("expected error when API key is unset")
	}
}

func TestRenderGrid(t *testing.T) {
	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "month")
	sheet.SetCell(0, 1, "sales")
	sheet.SetCell(1, 0, "Jan")
	sheet.SetCell(1, 1, "100")

	got := RenderGrid(sheet)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("rendered %d lines, want 3:\n%s", len(lines), got)
	}
	if lines[0] != "\tA\tB" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "2\tJan\t100" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestRenderGridEmpty(t *testing.T) {
	if got := RenderGrid(engine.NewSheet()); got != "(empty grid)" {
		t.Errorf("empty render = %q", got)
	}
}

func TestParseChartSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			"plain json",
			`{"type":"bar","title":"Sales by month","xRange":"A2:A4","yRange":"B2:B4","reason":"categorical"}`,
			"bar", false,
		},
		{
			"fenced json",
			"Here you go:\n```json\n{\"type\":\"line\",\"title\":\"Trend\",\"xRange\":\"A1:A5\",\"yRange\":\"B1:B5\",\"reason\":\"time series\"}\n```",
			"line", false,
		},
		{"no json", "I cannot help with that.", "", true},
		{"bad type", `{"type":"hologram"}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChartSuggestion(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Type != tt.want {
				t.Errorf("type = %q, want %q", got.Type, tt.want)
			}
		})
	}
}

func TestSuggestChart(t *testing.T) {
	sheet := engine.NewSheet()
	sheet.SetCell(0, 0, "Jan")
	sheet.SetCell(0, 1, "10")

	provider := &fakeProvider{reply: `{"type":"pie","title":"Split","xRange":"A1:A1","yRange":"B1:B1","reason":"shares"}`}
	suggestion, err := SuggestChart(context.Background(), provider, sheet)
	if err != nil {
		t.Fatal(err)
	}
	if suggestion.Type != "pie" || suggestion.YRange != "B1:B1" {
		t.Errorf("suggestion = %+v", suggestion)
	}
}

func TestSuggestChartEmptyGrid(t *testing.T) {
	provider := &fakeProvider{reply: "{}"}
	if _, err := SuggestChart(context.Background(), provider, engine.NewSheet()); err == nil {
		t.Error("expected error for empty grid")
	}
}

func TestAnthropicInfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"content":[{"text":"hello"}],"model":"claude-test","usage":{"input_tokens":5,"output_tokens":2}}`))
	}))
	defer server.Close()

	p := NewAnthropicProvider("test-key", "claude-test")
	p.BaseURL = server.URL

	result, err := p.Infer(context.Background(), "sys", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "hello" || result.OutputTokens != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestOpenAIInfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}],"model":"gpt-test","usage":{"prompt_tokens":3,"completion_tokens":2}}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "gpt-test")
	p.BaseURL = server.URL

	result, err := p.Infer(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "hi there" {
		t.Errorf("content = %q", result.Content)
	}
}

func TestOllamaInfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"message":{"content":"local reply"}}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama-test")
	result, err := p.Infer(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Content != "local reply" {
		t.Errorf("content = %q", result.Content)
	}
}
