package v1

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/util"
)

// getCurrentUser returns the signed-in user of the request, nil when anonymous.
func getCurrentUser(r *http.Request, s *store.Store) (*model.User, error) {
	userID := request.GetUserID(r)
	if userID == 0 {
		return nil, nil
	}
	return s.GetUser(r.Context(), &model.FindUser{ID: &userID})
}

// requireUser writes the error response and returns nil when the request has
// no usable user.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) *model.User {
	user, err := getCurrentUser(r, h.store)
	if err != nil {
		response.ServerError(w, r, err)
		return nil
	}
	if user == nil {
		response.Unauthorized(w, r)
		return nil
	}
	return user
}

// copyIDParam returns the {id} route parameter of a copy route, answering 404
// when it cannot be a copy id.
func copyIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := request.RouteStringParam(r, "id")
	if !util.IsUUID(id) {
		response.NotFound(w, r)
		return "", false
	}
	return id, true
}

// writeError maps domain and storage errors to their status code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, lending.ErrNotBorrower), errors.Is(err, lending.ErrNotLibrarian):
		response.Forbidden(w, r)
	case errors.Is(err, lending.ErrBookNotFound), errors.Is(err, lending.ErrCopyNotFound), errors.Is(err, store.ErrNotFound):
		response.NotFound(w, r)
	case errors.Is(err, lending.ErrInvalidTransition):
		response.Conflict(w, r, errorBody{ErrorMessage: err.Error()})
	case store.IsConstraint(err):
		response.BadRequest(w, r, errors.New("the request references a missing or conflicting record"))
	default:
		response.ServerError(w, r, err)
	}
}

type errorBody struct {
	ErrorMessage string `json:"error_message"`
}

// writeOutcome answers 200 for an accepted lending decision and 409 for a refused one.
func writeOutcome(w http.ResponseWriter, r *http.Request, o *lending.Outcome) {
	if o.Accepted() {
		response.OK(w, r, o)
		return
	}
	response.Conflict(w, r, o)
}
