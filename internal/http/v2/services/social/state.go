package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/authkit/internal/cache"
)

const stateKeyPrefix = "sso_state:"

// loginState es lo que se guarda entre /login y /callback.
type loginState struct {
	Provider  string `json:"provider"`
	ReturnURL string `json:"return_url"`
	Nonce     string `json:"nonce"`
}

type stateStore struct {
	cache cache.Client
	ttl   time.Duration
}

func (s *stateStore) save(ctx context.Context, key string, st loginState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, stateKeyPrefix+key, string(b), s.ttl)
}

// take consume el state: un segundo callback con el mismo state falla.
func (s *stateStore) take(ctx context.Context, key string) (loginState, error) {
	raw, err := s.cache.Take(ctx, stateKeyPrefix+key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return loginState{}, ErrInvalidState
		}
		return loginState{}, fmt.Errorf("load state: %w", err)
	}
	var st loginState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return loginState{}, ErrInvalidState
	}
	return st, nil
}
