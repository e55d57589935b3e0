// Package llmadvisor wraps google.golang.org/genai as the opaque color
// suggestion advisor C3 consults for abbreviation-looking color codes.
// Callers get clean.ColorAdvisor semantics: a hard timeout and a
// never-block guarantee — any failure degrades to an empty suggestion
// list rather than propagating an error (§4.3, §9, §5 "Timeouts").
package llmadvisor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fenwickretail/invpipe/internal/clean"
)

// Config configures the genai-backed advisor.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Advisor implements clean.ColorAdvisor.
type Advisor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New constructs an Advisor. Model defaults to "gemini-2.0-flash" and
// Timeout to 5 seconds when unset.
func New(ctx context.Context, cfg Config) (*Advisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Advisor{client: client, model: model, timeout: timeout}, nil
}

type suggestionPayload struct {
	Bad        string  `json:"bad"`
	Good       string  `json:"good"`
	Confidence float64 `json:"confidence"`
}

// SuggestBatch asks the model to resolve each abbreviation-looking color
// code to a full color name with a confidence score. On any error or
// timeout it logs and returns nil — callers treat that as "no
// suggestion" and fall back to the original text verbatim, never
// blocking the pipeline.
func (a *Advisor) SuggestBatch(ctx context.Context, candidates []string) []clean.ColorSuggestion {
	if len(candidates) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt := buildPrompt(candidates)
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		log.Warn().Err(err).Strs("candidates", candidates).Msg("color advisor call failed, continuing without suggestions")
		return nil
	}

	text := resp.Text()
	var payloads []suggestionPayload
	if err := json.Unmarshal([]byte(extractJSONArray(text)), &payloads); err != nil {
		log.Warn().Err(err).Str("response", text).Msg("color advisor returned unparseable response")
		return nil
	}

	out := make([]clean.ColorSuggestion, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, clean.ColorSuggestion{
			Bad:        strings.ToUpper(p.Bad),
			Good:       p.Good,
			Confidence: p.Confidence,
		})
	}
	return out
}

func buildPrompt(candidates []string) string {
	var b strings.Builder
	b.WriteString("For each abbreviation color code below, respond with a JSON array of ")
	b.WriteString(`{"bad":"<code>","good":"<full color name>","confidence":<0-1>}. Codes: `)
	b.WriteString(strings.Join(candidates, ", "))
	return b.String()
}

// extractJSONArray trims any surrounding prose/markdown fencing the model
// adds around the JSON array.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < 0 || end < start {
		return "[]"
	}
	return text[start : end+1]
}
