package similarity

import (
	"context"
	"fmt"
	"testing"
)

func TestKeywordSimilarity(t *testing.T) {
	s := NewKeywordScorer()
	ctx := context.Background()

	identical := s.Similarity(ctx, "space travel adventure", "space travel adventure")
	if identical != 1.0 {
		t.Errorf("expected 1.0 for identical text, got %f", identical)
	}

	disjoint := s.Similarity(ctx, "space travel adventure", "romantic comedy paris")
	if disjoint != 0.0 {
		t.Errorf("expected 0.0 for disjoint text, got %f", disjoint)
	}

	// {space, travel} vs {space, opera}: intersection 1, union 3.
	partial := s.Similarity(ctx, "Space Travel", "space opera")
	if partial < 0.33 || partial > 0.34 {
		t.Errorf("expected ~1/3 for partial overlap, got %f", partial)
	}
}

func TestKeywordSimilarityNormalization(t *testing.T) {
	s := NewKeywordScorer()
	ctx := context.Background()

	// Case, punctuation, and short tokens must not matter.
	a := s.Similarity(ctx, "The HEIST, of a lifetime!", "heist lifetime")
	b := s.Similarity(ctx, "the heist of a lifetime", "heist lifetime")
	if a != b {
		t.Errorf("normalization changed the score: %f vs %f", a, b)
	}
	if a != 1.0 {
		// "The", "of", "a" are dropped as short tokens.
		t.Errorf("expected 1.0 after dropping short tokens, got %f", a)
	}

	if got := s.Similarity(ctx, "", "anything"); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

type fakeEmbedder struct {
	vectors map[string][]float64
	calls   int
	fail    bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("backend down")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("no vector for %q", text)
}

func TestEmbeddingSimilarityCosine(t *testing.T) {
	client := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0, 0},
		"b": {1, 0, 0},
		"c": {0, 1, 0},
	}}
	s := NewEmbeddingScorer(client)
	s.backoff = 0
	ctx := context.Background()

	if got := s.Similarity(ctx, "a", "b"); got != 1.0 {
		t.Errorf("expected cosine 1.0 for parallel vectors, got %f", got)
	}
	if got := s.Similarity(ctx, "a", "c"); got != 0.0 {
		t.Errorf("expected cosine 0.0 for orthogonal vectors, got %f", got)
	}
}

func TestEmbeddingVectorCache(t *testing.T) {
	client := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {0, 1},
	}}
	s := NewEmbeddingScorer(client)
	s.backoff = 0
	ctx := context.Background()

	s.Similarity(ctx, "a", "b")
	s.Similarity(ctx, "a", "b")
	if client.calls != 2 {
		t.Errorf("expected 2 embed calls with caching, got %d", client.calls)
	}
}

func TestEmbeddingFallsBackToKeywords(t *testing.T) {
	client := &fakeEmbedder{fail: true}
	s := NewEmbeddingScorer(client)
	s.backoff = 0
	ctx := context.Background()

	got := s.Similarity(ctx, "dark noir thriller", "dark noir thriller")
	if got != 1.0 {
		t.Errorf("expected keyword fallback score 1.0, got %f", got)
	}
	// Initial attempt plus two retries.
	if client.calls != 3 {
		t.Errorf("expected 3 embed attempts before fallback, got %d", client.calls)
	}
}

func TestEmbeddingClampsToUnitRange(t *testing.T) {
	client := &fakeEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {-1, 0},
	}}
	s := NewEmbeddingScorer(client)
	s.backoff = 0

	got := s.Similarity(context.Background(), "a", "b")
	if got != 0 {
		t.Errorf("expected negative cosine clamped to 0, got %f", got)
	}
}
