package admin

import (
	"net/http"

	"github.com/gorilla/mux"

	"famshare/internal/common"
)

type AdminHandler struct {
	service AdminService
}

func NewAdminHandler(service AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(r *mux.Router, auth *common.AuthMiddleware) {
	r.Handle("/admin/stats", auth.RequireAdmin(http.HandlerFunc(h.stats))).Methods("GET")
	r.Handle("/admin/users", auth.RequireAdmin(http.HandlerFunc(h.users))).Methods("GET")
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, users)
}
