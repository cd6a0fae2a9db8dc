// Package profile is the collaborator boundary to the user-profile store.
package profile

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"movierec/internal/model"
)

// Provider resolves users and their taste profiles.
type Provider interface {
	GetProfile(userID string) (*model.UserProfile, error)
	GetUserByToken(token string) (*model.User, error)
}

// StaticProvider serves profiles from a yaml file loaded at startup.
type StaticProvider struct {
	mu         sync.RWMutex
	users      map[string]*model.User
	tokenIndex map[string]*model.User
}

type staticConfig struct {
	Users []model.User `yaml:"users"`
}

// NewStaticProvider loads the profile file (yaml) and builds the lookup
// indexes.
func NewStaticProvider(configPath string) (*StaticProvider, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile config file: %w", err)
	}

	var config staticConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse profile config: %w", err)
	}

	users := make(map[string]*model.User)
	tokenIndex := make(map[string]*model.User)
	for i := range config.Users {
		u := &config.Users[i]
		users[u.ID] = u
		if u.Token != "" {
			tokenIndex[u.Token] = u
		}
	}

	return &StaticProvider{users: users, tokenIndex: tokenIndex}, nil
}

// GetProfile returns the taste profile for the user id.
func (p *StaticProvider) GetProfile(userID string) (*model.UserProfile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.users[userID]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", userID)
	}
	return &u.Profile, nil
}

// GetUserByToken resolves the bearer token to a user.
func (p *StaticProvider) GetUserByToken(token string) (*model.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	u, ok := p.tokenIndex[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return u, nil
}
