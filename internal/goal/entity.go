package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/user"
)

// MaxImagesPerGoal caps the number of live images a goal may own.
const MaxImagesPerGoal = 3

type Goal struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string          `gorm:"type:text;not null" json:"title"`
	TargetAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"target_amount"`
	SavedAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"saved_amount"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User              user.User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	MotivationalQuote *string         `gorm:"type:text" json:"motivational_quote,omitempty"`
	Description       *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Images []GoalImage `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type GoalImage struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoalID           uuid.UUID `gorm:"type:uuid;not null;index" json:"goal_id"`
	Filename         string    `gorm:"type:text;not null" json:"filename"`
	OriginalFilename string    `gorm:"type:text" json:"original_filename"`
	Position         int       `gorm:"not null;default:0" json:"position"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

var hundred = decimal.NewFromInt(100)

// ProgressPercentage is derived, clamped to [0, 100]. A zero target
// reads as 0 rather than dividing by zero.
func (g *Goal) ProgressPercentage() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.SavedAmount.Div(g.TargetAmount).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return 100
	}
	if pct.IsNegative() {
		return 0
	}
	pctFloat, _ := pct.Float64()
	return pctFloat
}

// RemainingAmount floors at zero; overshooting the target is allowed.
func (g *Goal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.SavedAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
