// Command openai-stub serves a minimal OpenAI-compatible API that tags SIREN
// spans, for running the extractor's LLM recognizer without a real model.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

var (
	labelPattern = regexp.MustCompile(`with label "([^"]+)"`)
	spanPattern  = regexp.MustCompile(`(?:n°\s*)?\b[0-9]{3}[ .-]?[0-9]{3}[ .-]?[0-9]{3}\b`)
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if len(req.Messages) < 2 || !strings.Contains(req.Messages[0].Content, "named-entity tagger") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		b, _ := json.Marshal(map[string]any{"entities": tag(req.Messages[0].Content, req.Messages[1].Content)})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": string(b)}},
			},
		})
	})
	return mux
}

type entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// tag labels every nine-digit group of user with the label requested in sys.
func tag(sys, user string) []entity {
	label := "SIREN"
	if m := labelPattern.FindStringSubmatch(sys); m != nil {
		label = m[1]
	}
	out := []entity{}
	for _, span := range spanPattern.FindAllString(user, -1) {
		out = append(out, entity{Text: span, Label: label})
	}
	return out
}
