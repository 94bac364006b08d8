package savings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/goal"
)

// Transaction is an append-only ledger entry. No update or delete
// path exists for it.
type Transaction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	GoalID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"goal_id"`
	Goal      goal.Goal       `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Note      *string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"transaction_date"`
}

func (Transaction) TableName() string {
	return "savings_transactions"
}
