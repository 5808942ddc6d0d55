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

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var create model.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	bookID := request.RouteIntParam(r, "id")
	book, err := h.store.GetBook(ctx, bookID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	review, err := h.store.CreateReview(ctx, &model.Review{
		BookID: bookID,
		UserID: request.GetUserID(r),
		Text:   create.Text,
	})
	if err != nil {
		log.Error("Failed to create review", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.Created(w, r, review)
}

// deleteReview removes a review. Only its author may do so.
func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	review, err := h.store.GetReview(ctx, request.RouteIntParam(r, "id"))
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if review == nil {
		response.NotFound(w, r)
		return
	}
	if review.UserID != request.GetUserID(r) {
		response.Forbidden(w, r)
		return
	}

	if err := h.store.DeleteReview(ctx, review.ID); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
