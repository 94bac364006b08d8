package auth

import (
	"net/http"

	"github.com/tamuuh/tamuuh-api/internal/config"
)

type Handler struct {
	cookieDomain string
}

func NewHandler(cookieDomain string) *Handler {
	return &Handler{cookieDomain: cookieDomain}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ClearSessionCookie(w, h.cookieDomain)

	config.JSON(w, http.StatusOK, map[string]string{
		"message": "logout successful",
	})
}
