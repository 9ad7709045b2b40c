package invite

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"famshare/internal/common"
)

type InvitationHandler struct {
	service InvitationService
}

func NewInvitationHandler(service InvitationService) *InvitationHandler {
	return &InvitationHandler{service: service}
}

func (h *InvitationHandler) RegisterRoutes(r *mux.Router, auth *common.AuthMiddleware) {
	r.Handle("/invitations", auth.RequireAdmin(http.HandlerFunc(h.create))).Methods("POST")
	r.HandleFunc("/invitations/accept", h.accept).Methods("POST")
}

type createInvitationRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Role      string  `json:"role" validate:"omitempty,oneof=ADMIN MEMBER"`
	ExpiresAt *string `json:"expires_at"`
}

func (h *InvitationHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, _ := common.IdentityFromContext(r.Context())

	var req createInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			common.WriteError(w, common.BadRequest("expires_at must be RFC3339"))
			return
		}
		expiresAt = &t
	}

	inv, err := h.service.CreateInvitation(r.Context(), claims.UserID, req.Email, req.Role, expiresAt)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, inv)
}

type acceptInvitationRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

func (h *InvitationHandler) accept(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, common.BadRequest("invalid request body"))
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}

	created, err := h.service.AcceptInvitation(r.Context(), req.Code, req.Name, req.Email, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, created)
}
