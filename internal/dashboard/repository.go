package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"gorm.io/gorm"
)

type Repository interface {
	TotalSavings(userID uuid.UUID) (decimal.Decimal, error)
	CountGoals(userID uuid.UUID) (int64, error)
	SavingsBetween(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) TotalSavings(userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.Model(&goal.Goal{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(saved_amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *repository) CountGoals(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&goal.Goal{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SavingsBetween(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.Model(&savings.Transaction{}).
		Joins("JOIN goals ON goals.id = savings_transactions.goal_id").
		Where("goals.user_id = ?", userID).
		Where("savings_transactions.created_at >= ? AND savings_transactions.created_at < ?", from, to).
		Select("COALESCE(SUM(savings_transactions.amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
