package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context(), &model.FindUser{})
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, response.UserListResponse(users))
}

// updateUserRole promotes or demotes a user. Only the host hands out librarian rights.
func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	if request.GetUserRole(r) != model.RoleHost {
		log.Warn("Role change refused", zap.String("username", request.GetUsername(r)))
		response.Forbidden(w, r)
		return
	}

	var update model.UserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.UpdateUserRole(r.Context(), int32(request.RouteIntParam(r, "id")), update.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info("User role changed", zap.String("username", user.Username), zap.String("role", user.Role.String()))
	response.OK(w, r, response.UserResponse(user))
}
