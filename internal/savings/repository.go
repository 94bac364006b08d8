package savings

import (
	"github.com/google/uuid"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"gorm.io/gorm"
)

type Repository interface {
	Deposit(txn *Transaction) error
	FindAllByGoalID(goalID uuid.UUID) ([]Transaction, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Deposit increments the goal's cached saved_amount and appends the
// ledger row in one transaction. The increment runs in the database,
// so concurrent deposits cannot lose updates, and neither write ever
// commits without the other.
func (r *repository) Deposit(txn *Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&goal.Goal{}).
			Where("id = ?", txn.GoalID).
			Update("saved_amount", gorm.Expr("saved_amount + ?", txn.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(txn).Error
	})
}

func (r *repository) FindAllByGoalID(goalID uuid.UUID) ([]Transaction, error) {
	var txns []Transaction
	if err := r.db.Where("goal_id = ?", goalID).Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
