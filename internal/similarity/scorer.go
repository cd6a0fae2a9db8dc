// Package similarity scores text-to-text similarity in [0,1]. Two backends
// exist: a deterministic keyword backend that is always available, and an
// optional embedding backend that falls through to the keyword backend when
// the external service is unconfigured or keeps failing.
package similarity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	"movierec/internal/logger"
	"movierec/pkg/embedding"
)

// Scorer computes a similarity between two text blobs, in [0,1].
type Scorer interface {
	Similarity(ctx context.Context, a, b string) float64
}

// KeywordScorer is the deterministic fallback backend: Jaccard similarity of
// token sets after lower-casing, punctuation stripping, and dropping tokens
// of two characters or fewer.
type KeywordScorer struct{}

// NewKeywordScorer creates the keyword backend.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// Similarity returns the Jaccard similarity of the two token sets.
func (s *KeywordScorer) Similarity(_ context.Context, a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenize(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 {
			continue
		}
		tokens[tok] = struct{}{}
	}
	return tokens
}

// EmbeddingScorer embeds both texts and returns their cosine similarity,
// clamped to [0,1]. Vectors are cached by content hash. After two failed
// retries with linear backoff it degrades to the keyword backend for that
// call.
type EmbeddingScorer struct {
	client   embedding.Client
	fallback Scorer
	backoff  time.Duration

	mu      sync.RWMutex
	vectors map[string][]float64
}

// NewEmbeddingScorer creates the embedding backend with the keyword backend
// as its fallback.
func NewEmbeddingScorer(client embedding.Client) *EmbeddingScorer {
	return &EmbeddingScorer{
		client:   client,
		fallback: NewKeywordScorer(),
		backoff:  500 * time.Millisecond,
		vectors:  make(map[string][]float64),
	}
}

// Similarity embeds both texts and returns their cosine similarity. Any
// backend failure degrades to the keyword similarity of the same texts.
func (s *EmbeddingScorer) Similarity(ctx context.Context, a, b string) float64 {
	vecA, errA := s.embed(ctx, a)
	if errA != nil {
		logger.Debug("embedding backend exhausted, using keyword fallback: %v", errA)
		return s.fallback.Similarity(ctx, a, b)
	}
	vecB, errB := s.embed(ctx, b)
	if errB != nil {
		logger.Debug("embedding backend exhausted, using keyword fallback: %v", errB)
		return s.fallback.Similarity(ctx, a, b)
	}

	sim := cosine(vecA, vecB)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// embed returns the cached vector for the text, fetching it with up to two
// retries on failure.
func (s *EmbeddingScorer) embed(ctx context.Context, text string) ([]float64, error) {
	key := contentHash(text)

	s.mu.RLock()
	vec, ok := s.vectors[key]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}

	var lastErr error
	for attempt := 0; attempt <= 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * s.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		vec, lastErr = s.client.Embed(ctx, text)
		if lastErr == nil {
			s.mu.Lock()
			s.vectors[key] = vec
			s.mu.Unlock()
			return vec, nil
		}
	}
	return nil, lastErr
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
