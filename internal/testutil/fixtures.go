package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/user"
	"gorm.io/gorm"
)

func SeedUser(t *testing.T, db *gorm.DB, email string) *user.User {
	t.Helper()

	u := &user.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedGoal(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, target string) *goal.Goal {
	t.Helper()

	g := &goal.Goal{
		ID:           uuid.New(),
		Title:        title,
		TargetAmount: decimal.RequireFromString(target),
		SavedAmount:  decimal.Zero,
		UserID:       userID,
	}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	return g
}
