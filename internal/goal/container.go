package goal

import "gorm.io/gorm"

type GoalContainer struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewGoalContainer(db *gorm.DB, images ImageStore) *GoalContainer {
	repo := NewRepository(db)
	service := NewService(repo, images)
	handler := NewHandler(service)

	return &GoalContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
