package usecase

import (
	"context"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type UserCounts struct {
	Total    int
	Verified int
	Premium  int
}

type StatsUseCase interface {
	GetCounts(ctx context.Context) (UserCounts, error)
}

type statsUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, log: logger}
}

func (u *statsUC) GetCounts(ctx context.Context) (UserCounts, error) {
	defer logging.TraceDuration(u.log, "StatsUC.GetCounts")()
	total, verified, premium, err := u.users.CountUsers(ctx)
	if err != nil {
		return UserCounts{}, err
	}
	return UserCounts{Total: total, Verified: verified, Premium: premium}, nil
}
