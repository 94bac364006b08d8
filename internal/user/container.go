package user

import "gorm.io/gorm"

type UserContainer struct {
	Repo    Repository
	Service Service
	Handler *Handler
}

func NewUserContainer(db *gorm.DB, cookieDomain string) *UserContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service, cookieDomain)

	return &UserContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
