package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hireflow-ai/hireflow/internal/apperr"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeClient struct {
	apiKey  string
	text    string
	vector  []float32
	callErr error
}

func (f *fakeClient) GenerateText(ctx context.Context, model, system, user string, cfg *genai.GenerateContentConfig) (string, error) {
	if f.callErr != nil {
		return "", f.callErr
	}
	return f.text, nil
}

func (f *fakeClient) Embed(ctx context.Context, model, text string) ([]float32, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.vector, nil
}

func newTestService(t *testing.T, keys []string, factory clientFactory) *GeminiService {
	t.Helper()
	pool, err := NewCredentialPool(keys)
	require.NoError(t, err)
	return &GeminiService{
		pool:       pool,
		factory:    factory,
		model:      "test-model",
		embedModel: "test-embedding",
		logger:     zap.NewNop(),
	}
}

func TestCredentialPoolRoundRobin(t *testing.T) {
	pool, err := NewCredentialPool([]string{"k1", "k2", "k3"})
	require.NoError(t, err)

	require.Equal(t, 3, pool.Size())
	require.Equal(t, "k1", pool.Next())
	require.Equal(t, "k2", pool.Next())
	require.Equal(t, "k3", pool.Next())
	require.Equal(t, "k1", pool.Next())
}

func TestCredentialPoolRequiresKeys(t *testing.T) {
	_, err := NewCredentialPool(nil)
	require.Error(t, err)
}

func TestInvokeTextRetriesOnceWithRotatedKey(t *testing.T) {
	var usedKeys []string
	factory := func(ctx context.Context, apiKey string) (modelClient, error) {
		usedKeys = append(usedKeys, apiKey)
		if len(usedKeys) == 1 {
			return &fakeClient{apiKey: apiKey, callErr: errors.New("quota exceeded")}, nil
		}
		return &fakeClient{apiKey: apiKey, text: "hello"}, nil
	}
	svc := newTestService(t, []string{"k1", "k2"}, factory)

	out, err := svc.InvokeText(context.Background(), "sys", "user")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
	require.Equal(t, []string{"k1", "k2"}, usedKeys)
}

func TestInvokeTextSecondFailureIsModelInvocationError(t *testing.T) {
	attempts := 0
	factory := func(ctx context.Context, apiKey string) (modelClient, error) {
		attempts++
		return &fakeClient{callErr: errors.New("provider down")}, nil
	}
	svc := newTestService(t, []string{"k1"}, factory)

	_, err := svc.InvokeText(context.Background(), "sys", "user")
	var invocation *apperr.ModelInvocationError
	require.ErrorAs(t, err, &invocation)
	require.Equal(t, 2, attempts)
}

func TestInvokeStructuredParsesFencedJSON(t *testing.T) {
	factory := func(ctx context.Context, apiKey string) (modelClient, error) {
		return &fakeClient{text: "```json\n{\"score\": 88}\n```"}, nil
	}
	svc := newTestService(t, []string{"k1"}, factory)

	var out struct {
		Score float64 `json:"score"`
	}
	require.NoError(t, svc.InvokeStructured(context.Background(), "sys", "user", nil, &out))
	require.Equal(t, 88.0, out.Score)
}

func TestInvokeStructuredUnparseableIsExtractionParseError(t *testing.T) {
	factory := func(ctx context.Context, apiKey string) (modelClient, error) {
		return &fakeClient{text: "sorry, I cannot do that"}, nil
	}
	svc := newTestService(t, []string{"k1"}, factory)

	var out map[string]any
	err := svc.InvokeStructured(context.Background(), "sys", "user", nil, &out)
	var parse *apperr.ExtractionParseError
	require.ErrorAs(t, err, &parse)
}

func TestGenerateEmbedding(t *testing.T) {
	factory := func(ctx context.Context, apiKey string) (modelClient, error) {
		return &fakeClient{vector: []float32{0.1, 0.2}}, nil
	}
	svc := newTestService(t, []string{"k1"}, factory)

	vec, err := svc.GenerateEmbedding(context.Background(), "some resume")
	require.NoError(t, err)
	require.Equal(t, []float32{0.1, 0.2}, vec)
}

func TestStripCodeFence(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                      "{\"a\":1}",
		"```json\n{\"a\":1}\n```":        "{\"a\":1}",
		"```\n{\"a\":1}\n```":            "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```\n  ":  "{\"a\":1}",
	}
	for in, want := range cases {
		require.Equal(t, want, StripCodeFence(in))
	}
}
