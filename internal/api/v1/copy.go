package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

// listCopies lists every copy with its status, optionally filtered by
// ?book_id= and ?status=.
func (h *Handler) listCopies(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBookCopy{}
	if v := request.QueryIntParam(r, "book_id", 0); v > 0 {
		find.BookID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := model.CopyStatus(v)
		if !status.IsValid() {
			response.BadRequest(w, r, errors.Errorf("unknown copy status %q", v))
			return
		}
		find.Status = &status
	}

	copies, err := h.store.ListCopies(r.Context(), find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, copies)
}

func (h *Handler) createCopy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var create model.CopyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	book, err := h.store.GetBook(ctx, create.BookID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	c, err := h.store.CreateCopy(ctx, &model.BookCopy{
		BookID:  create.BookID,
		Imprint: create.Imprint,
		Status:  create.Status,
	})
	if err != nil {
		log.Error("Failed to create copy", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.Created(w, r, c)
}

// setCopyStatus moves a copy nobody holds between maintenance and available.
func (h *Handler) setCopyStatus(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}
	copyID, ok := copyIDParam(w, r)
	if !ok {
		return
	}
	var update model.CopyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	c, err := h.service.SetAdminStatus(r.Context(), user, copyID, update.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, c)
}

// deleteCopy removes a copy. Held copies must be returned first.
func (h *Handler) deleteCopy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	copyID, ok := copyIDParam(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetCopy(ctx, copyID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if c == nil {
		response.NotFound(w, r)
		return
	}
	if c.Status.IsHeld() {
		response.Conflict(w, r, errorBody{ErrorMessage: "copy is " + c.Status.String() + ", return it before deleting"})
		return
	}

	if err := h.store.DeleteCopy(ctx, copyID); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
