package config

import (
	"os"
	"strings"
	"sync"
)

type GeminiConfig struct {
	// APIKeys holds the credential pool: GOOGLE_API_KEYS (comma separated)
	// or the single GOOGLE_API_KEY.
	APIKeys        []string
	Model          string
	EmbeddingModel string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		var keys []string
		for _, k := range strings.Split(os.Getenv("GOOGLE_API_KEYS"), ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			if single := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); single != "" {
				keys = []string{single}
			}
		}
		model := os.Getenv("LLM_MODEL")
		if model == "" {
			model = "gemini-2.5-flash"
		}
		embedding := os.Getenv("EMBEDDING_MODEL")
		if embedding == "" {
			embedding = "gemini-embedding-001"
		}
		geminiConfig = &GeminiConfig{
			APIKeys:        keys,
			Model:          model,
			EmbeddingModel: embedding,
		}
	})
	return geminiConfig
}
