package recognize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/sirenextract/internal/cache"
	"github.com/hyperifyio/sirenextract/internal/llm"
)

// LLMRecognizer asks an OpenAI-compatible chat model to tag registration codes
// and enforces a JSON-only response contract.
type LLMRecognizer struct {
	Client llm.Client
	Model  string
	// Label is the label the model is asked to emit; defaults to DefaultLabel.
	Label   string
	Cache   *cache.LLMCache
	Verbose bool
}

const systemTemplate = "You are a named-entity tagger for French legal notices. Respond with strict JSON only, no narration. The JSON schema is {\"entities\": [{\"text\": string, \"label\": string}]}. Tag every SIREN registration number (9 digits, possibly written in groups such as 732 829 320) with label %q. Copy each span exactly as it appears in the text. Do not tag SIRET, RCS sequence numbers, phone numbers, or amounts. Return {\"entities\": []} when there is nothing to tag."

type llmResponse struct {
	Entities []Entity `json:"entities"`
}

// Recognize implements Recognizer. Transport and decoding failures are returned
// as errors so the caller can fall back to pattern-only extraction. Spans that
// do not occur verbatim in text are dropped.
func (r *LLMRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if r == nil || r.Client == nil || strings.TrimSpace(r.Model) == "" {
		return nil, ErrUnavailable
	}
	sys := r.systemMessage()
	key := cache.KeyFrom(r.Model, sys, text)
	if r.Cache != nil {
		if e, ok, _ := r.Cache.Get(ctx, key); ok {
			var cached []Entity
			if err := json.Unmarshal(e.Entities, &cached); err == nil {
				return cached, nil
			}
		}
	}
	if r.Verbose {
		log.Debug().Str("stage", "recognize").Str("model", r.Model).Int("system_len", len(sys)).Int("text_len", len(text)).Msg("recognizer prompt")
	}
	resp, err := r.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("recognizer call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("recognizer: no choices")
	}
	var parsed llmResponse
	raw := stripCodeFence(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse recognizer json: %w", err)
	}
	entities := make([]Entity, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		if e.Text == "" || !strings.Contains(text, e.Text) {
			log.Debug().Str("stage", "recognize").Str("span", e.Text).Msg("dropping span not present in text")
			continue
		}
		entities = append(entities, e)
	}
	if r.Cache != nil {
		if b, err := json.Marshal(entities); err == nil {
			_ = r.Cache.Save(ctx, key, cache.Entry{Model: r.Model, Entities: b})
		}
	}
	return entities, nil
}

func (r *LLMRecognizer) systemMessage() string {
	label := r.Label
	if label == "" {
		label = DefaultLabel
	}
	return fmt.Sprintf(systemTemplate, label)
}

// stripCodeFence removes a surrounding ```json fence some models add despite
// being asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
