package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/hireflow-ai/hireflow/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiServiceInterface interface {
	InvokeText(ctx context.Context, system, user string) (string, error)
	InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	PoolSize() int
}

// CredentialPool hands out API keys round-robin. Key values are never
// logged; only the pool size is observable.
type CredentialPool struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

func NewCredentialPool(keys []string) (*CredentialPool, error) {
	if len(keys) == 0 {
		return nil, errors.New("credential pool requires at least one API key")
	}
	return &CredentialPool{keys: keys}, nil
}

// Next returns the next key in rotation.
func (p *CredentialPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := p.keys[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.keys)
	return key
}

func (p *CredentialPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

// modelClient is what a single provisioned client can do. A fresh one is
// built per call so every attempt binds a newly rotated key.
type modelClient interface {
	GenerateText(ctx context.Context, model, system, user string, cfg *genai.GenerateContentConfig) (string, error)
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

type clientFactory func(ctx context.Context, apiKey string) (modelClient, error)

type GeminiService struct {
	pool       *CredentialPool
	factory    clientFactory
	model      string
	embedModel string
	logger     *zap.Logger
}

func NewGeminiService(cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	pool, err := NewCredentialPool(cfg.APIKeys)
	if err != nil {
		return nil, err
	}
	svc := &GeminiService{
		pool:       pool,
		factory:    newGenaiClient,
		model:      cfg.Model,
		embedModel: cfg.EmbeddingModel,
		logger:     logger,
	}
	svc.logger.Info("gemini service ready",
		zap.String("model", cfg.Model),
		zap.String("embedding_model", cfg.EmbeddingModel),
		zap.Int("pool_size", pool.Size()))
	return svc, nil
}

func (s *GeminiService) PoolSize() int {
	return s.pool.Size()
}

// withRetry runs fn with a fresh client on a rotated key and, on failure,
// exactly once more with the next key. A second failure wraps the last
// error in ModelInvocationError.
func (s *GeminiService) withRetry(ctx context.Context, op string, fn func(mc modelClient) error) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		mc, err := s.factory(ctx, s.pool.Next())
		if err != nil {
			lastErr = err
		} else if err = fn(mc); err != nil {
			lastErr = err
		} else {
			return nil
		}
		s.logger.Warn("model call failed",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Int("pool_size", s.pool.Size()),
			zap.Error(lastErr))
	}
	return &apperr.ModelInvocationError{Op: op, Err: lastErr}
}

// InvokeText runs a plain text completion.
func (s *GeminiService) InvokeText(ctx context.Context, system, user string) (string, error) {
	var out string
	err := s.withRetry(ctx, "invoke_text", func(mc modelClient) error {
		text, err := mc.GenerateText(ctx, s.model, system, user, nil)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// InvokeStructured runs a completion constrained to JSON output and
// unmarshals it into out. outSchema is optional; when set the model is
// additionally constrained to that shape. A response that cannot be parsed
// yields ExtractionParseError, not a retry: the call itself succeeded.
func (s *GeminiService) InvokeStructured(ctx context.Context, system, user string, outSchema *genai.Schema, out any) error {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if outSchema != nil {
		cfg.ResponseSchema = outSchema
	}
	var raw string
	err := s.withRetry(ctx, "invoke_structured", func(mc modelClient) error {
		text, err := mc.GenerateText(ctx, s.model, system, user, cfg)
		if err != nil {
			return err
		}
		raw = text
		return nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), out); err != nil {
		return &apperr.ExtractionParseError{Op: "invoke_structured", Err: err}
	}
	return nil
}

// GenerateEmbedding embeds the text with the configured embedding model.
func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := s.withRetry(ctx, "generate_embedding", func(mc modelClient) error {
		vec, err := mc.Embed(ctx, s.embedModel, text)
		if err != nil {
			return err
		}
		out = vec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StripCodeFence removes a surrounding markdown code fence (```json ... ```
// or plain ```) that models sometimes wrap JSON output in.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type genaiClient struct {
	client *genai.Client
}

func newGenaiClient(ctx context.Context, apiKey string) (modelClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &genaiClient{client: client}, nil
}

func (g *genaiClient) GenerateText(ctx context.Context, model, system, user string, cfg *genai.GenerateContentConfig) (string, error) {
	if cfg == nil {
		cfg = &genai.GenerateContentConfig{}
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(user), cfg)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

func (g *genaiClient) Embed(ctx context.Context, model, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Embeddings[0].Values, nil
}
