package dashboard

import "gorm.io/gorm"

type DashboardContainer struct {
	Service Service
	Handler *Handler
}

func NewDashboardContainer(db *gorm.DB) *DashboardContainer {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service)

	return &DashboardContainer{
		Service: service,
		Handler: handler,
	}
}
