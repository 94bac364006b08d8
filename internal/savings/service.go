package savings

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/config"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"gorm.io/gorm"
)

var ErrInvalidAmount = errors.New("deposit amount must be positive")

type Service interface {
	RecordDeposit(ctx context.Context, goalID uuid.UUID, actorUserID uuid.UUID, amount decimal.Decimal, note string) (*Transaction, error)
	ListByGoal(ctx context.Context, goalID uuid.UUID, actorUserID uuid.UUID) ([]Transaction, error)
}

type service struct {
	repo     Repository
	goalRepo goal.Repository
}

func NewService(repo Repository, goalRepo goal.Repository) Service {
	return &service{repo: repo, goalRepo: goalRepo}
}

// RecordDeposit is deliberately not idempotent: submitting the same
// deposit twice records it twice. Deduplication is the caller's
// problem.
func (s *service) RecordDeposit(ctx context.Context, goalID uuid.UUID, actorUserID uuid.UUID, amount decimal.Decimal, note string) (*Transaction, error) {
	log := config.WithContext(ctx)

	if err := s.checkOwnership(goalID, actorUserID); err != nil {
		return nil, err
	}

	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	txn := Transaction{
		ID:     uuid.New(),
		GoalID: goalID,
		Amount: amount,
		Note:   nilIfBlank(note),
	}

	if err := s.repo.Deposit(&txn); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Goal vanished between the ownership check and the write.
			return nil, goal.ErrGoalNotFound
		}
		log.WithError(err).Error("Failed to record deposit")
		return nil, err
	}

	return &txn, nil
}

func (s *service) ListByGoal(ctx context.Context, goalID uuid.UUID, actorUserID uuid.UUID) ([]Transaction, error) {
	if err := s.checkOwnership(goalID, actorUserID); err != nil {
		return nil, err
	}

	txns, err := s.repo.FindAllByGoalID(goalID)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to list transactions")
		return nil, err
	}
	return txns, nil
}

func (s *service) checkOwnership(goalID uuid.UUID, actorUserID uuid.UUID) error {
	g, err := s.goalRepo.FindByID(goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goal.ErrGoalNotFound
		}
		return err
	}
	if g.UserID != actorUserID {
		return goal.ErrAccessDenied
	}
	return nil
}

func nilIfBlank(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
