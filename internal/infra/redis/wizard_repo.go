package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.WizardStateRepository = (*WizardRepo)(nil)

// WizardRepo keeps per-user template wizard state in Redis. The TTL is the
// expiry policy for abandoned sessions.
type WizardRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewWizardRepo(client RedisClient, ttl time.Duration) *WizardRepo {
	if ttl <= 0 {
		ttl = 15 * time.Minute // give users 15 minutes to finish the flow
	}
	return &WizardRepo{client: client, ttl: ttl}
}

func (r *WizardRepo) stateKey(tgID int64) string {
	return fmt.Sprintf("wizard_state:%d", tgID)
}

func (r *WizardRepo) GetState(ctx context.Context, tgID int64) (*repository.WizardState, error) {
	data, err := r.client.Get(ctx, r.stateKey(tgID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var state repository.WizardState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *WizardRepo) SetState(ctx context.Context, tgID int64, state *repository.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.stateKey(tgID), data, r.ttl)
}

func (r *WizardRepo) ClearState(ctx context.Context, tgID int64) error {
	return r.client.Del(ctx, r.stateKey(tgID))
}
