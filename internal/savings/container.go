package savings

import (
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"gorm.io/gorm"
)

type SavingsContainer struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewSavingsContainer(db *gorm.DB, goalRepo goal.Repository) *SavingsContainer {
	repo := NewRepository(db)
	service := NewService(repo, goalRepo)
	handler := NewHandler(service)

	return &SavingsContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
