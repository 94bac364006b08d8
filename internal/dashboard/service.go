package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/config"
)

type SummaryResponse struct {
	TotalSavings decimal.Decimal `json:"total_savings"`
	ActiveGoals  int64           `json:"active_goals"`
	ThisMonth    decimal.Decimal `json:"this_month"`
}

type Service interface {
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Summary is computed on read from committed state; nothing here is
// cached.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error) {
	log := config.WithContext(ctx)

	total, err := s.repo.TotalSavings(userID)
	if err != nil {
		log.WithError(err).Error("Failed to sum savings")
		return nil, err
	}

	count, err := s.repo.CountGoals(userID)
	if err != nil {
		log.WithError(err).Error("Failed to count goals")
		return nil, err
	}

	from, to := currentMonthBounds(s.now())
	thisMonth, err := s.repo.SavingsBetween(userID, from, to)
	if err != nil {
		log.WithError(err).Error("Failed to sum this month's savings")
		return nil, err
	}

	return &SummaryResponse{
		TotalSavings: total,
		ActiveGoals:  count,
		ThisMonth:    thisMonth,
	}, nil
}

// currentMonthBounds derives the calendar month from the clock rather
// than pinning a month number.
func currentMonthBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
