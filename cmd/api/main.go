package main

import (
	"log"
	"net/http"

	"github.com/tamuuh/tamuuh-api/internal/container"
	"github.com/tamuuh/tamuuh-api/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		UserHandler:      c.UserContainer.Handler,
		GoalHandler:      c.GoalContainer.Handler,
		SavingsHandler:   c.SavingsContainer.Handler,
		DashboardHandler: c.DashboardContainer.Handler,
		CookieDomain:     c.Config.CookieDomain,
		MediaRoot:        c.Config.MediaRoot,
	})

	log.Printf("listening on %s", c.Config.HTTPAddr)
	if err := http.ListenAndServe(c.Config.HTTPAddr, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
