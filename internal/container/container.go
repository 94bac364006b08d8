package container

import (
	"context"
	"log"

	"github.com/tamuuh/tamuuh-api/internal/auth"
	"github.com/tamuuh/tamuuh-api/internal/config"
	"github.com/tamuuh/tamuuh-api/internal/dashboard"
	"github.com/tamuuh/tamuuh-api/internal/goal"
	"github.com/tamuuh/tamuuh-api/internal/media"
	"github.com/tamuuh/tamuuh-api/internal/savings"
	"github.com/tamuuh/tamuuh-api/internal/user"
	"gorm.io/gorm"
)

type Container struct {
	Config             config.Config
	UserContainer      *user.UserContainer
	GoalContainer      *goal.GoalContainer
	SavingsContainer   *savings.SavingsContainer
	DashboardContainer *dashboard.DashboardContainer
}

func New() *Container {
	config.InitLogger()
	auth.Init()

	cfg := config.Load()

	db, err := config.Connect(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	store, err := media.NewStore(cfg.MediaRoot)
	if err != nil {
		log.Fatalf("failed to open media store: %v", err)
	}

	userContainer := user.NewUserContainer(db, cfg.CookieDomain)
	goalContainer := goal.NewGoalContainer(db, store)
	savingsContainer := savings.NewSavingsContainer(db, goalContainer.Repo)
	dashboardContainer := dashboard.NewDashboardContainer(db)

	return &Container{
		Config:             cfg,
		UserContainer:      userContainer,
		GoalContainer:      goalContainer,
		SavingsContainer:   savingsContainer,
		DashboardContainer: dashboardContainer,
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&goal.Goal{},
		&goal.GoalImage{},
		&savings.Transaction{},
	)
}
