package profile

import (
	"os"
	"path/filepath"
	"testing"

	"movierec/internal/model"
)

func TestStaticProvider(t *testing.T) {
	p := &StaticProvider{
		users: map[string]*model.User{
			"u1": {ID: "u1", Name: "Test User", Token: "t1", Profile: model.UserProfile{
				GenreRatings: map[model.GenreID]int{28: 9},
			}},
		},
		tokenIndex: map[string]*model.User{
			"t1": {ID: "u1", Name: "Test User", Token: "t1"},
		},
	}

	prof, err := p.GetProfile("u1")
	if err != nil {
		t.Errorf("GetProfile failed: %v", err)
	}
	if prof.GenreRatings[28] != 9 {
		t.Errorf("expected genre rating 9, got %d", prof.GenreRatings[28])
	}

	u, err := p.GetUserByToken("t1")
	if err != nil {
		t.Errorf("GetUserByToken failed: %v", err)
	}
	if u.ID != "u1" {
		t.Errorf("expected u1, got %s", u.ID)
	}

	if _, err := p.GetProfile("u2"); err == nil {
		t.Error("expected error for non-existent user")
	}
	if _, err := p.GetUserByToken("bad"); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestStaticProviderLoadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	content := `users:
  - id: "u1"
    name: "Yaml User"
    token: "tok"
    profile:
      genre_ratings:
        28: 8
      deal_breakers:
        - "subtitles"
      runtime_preference: "short"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	p, err := NewStaticProvider(path)
	if err != nil {
		t.Fatalf("failed to load provider: %v", err)
	}

	prof, err := p.GetProfile("u1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if prof.GenreRatings[28] != 8 {
		t.Errorf("expected genre rating 8, got %d", prof.GenreRatings[28])
	}
	if !prof.HasDealBreaker(model.DealBreakerSubtitles) {
		t.Error("expected subtitles deal-breaker")
	}
	if prof.RuntimePreference != model.RuntimeShort {
		t.Errorf("expected short runtime preference, got %s", prof.RuntimePreference)
	}
}
