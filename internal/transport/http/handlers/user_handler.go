package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/repository"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/transport/http/respond"
	"github.com/svillar/quiet/pkg/validator"
)

type UserHandler struct {
	*Resource[domain.User, domain.UserPatch]
	auth *service.AuthService
}

func NewUserHandler(users repository.UserRepository, auth *service.AuthService) *UserHandler {
	return &UserHandler{
		Resource: NewResource[domain.User, domain.UserPatch](users),
		auth:     auth,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.BadRequest("Invalid request body"))
		return
	}

	if errs := validator.ValidateRegister(input.UserName, input.Email, input.Password); errs.HasErrors() {
		respond.Error(w, apperr.BadRequest(errs.Message()))
		return
	}

	user, err := h.auth.Register(r.Context(), input)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.BadRequest("Invalid request body"))
		return
	}

	token, user, err := h.auth.Login(r.Context(), input)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
