package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterviewTokensArePairwiseUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token := NewInterviewToken()
		require.NotEmpty(t, token)
		_, dup := seen[token]
		require.False(t, dup, "duplicate token generated")
		seen[token] = struct{}{}
	}
}

func TestInterviewTokenIsURLSafe(t *testing.T) {
	token := NewInterviewToken()
	for _, r := range token {
		require.NotContains(t, "+/=", string(r))
	}
}
