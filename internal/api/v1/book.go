package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

const defaultMaxUploadSize = 10 << 20

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if v := r.URL.Query().Get("title"); v != "" {
		find.Title = &v
	}
	if v := r.URL.Query().Get("isbn"); v != "" {
		find.ISBN = &v
	}
	if v := request.QueryIntParam(r, "author", 0); v > 0 {
		find.AuthorID = &v
	}
	if v := request.QueryIntParam(r, "genre", 0); v > 0 {
		find.GenreID = &v
	}
	if v := request.QueryIntParam(r, "limit", 0); v > 0 {
		offset := request.QueryIntParam(r, "offset", 0)
		find.Limit, find.Offset = &v, &offset
	}

	books, err := h.store.ListBooks(r.Context(), find)
	if err != nil {
		log.Error("Failed to list books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

// getBook returns a book with all its copies and reviews.
func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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

	copies, err := h.store.ListCopies(ctx, &model.FindBookCopy{BookID: &bookID, OrderBy: "imprint"})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	reviews, err := h.store.ListReviews(ctx, &model.FindReview{BookID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, &model.BookDetail{Book: book, Copies: copies, Reviews: reviews})
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	var create model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	book, genreIDs, err := validator.ValidateBookRequest(&create)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	book, err = h.store.CreateBook(r.Context(), book, genreIDs)
	if err != nil {
		log.Error("Failed to create book", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.Created(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var update model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	book, genreIDs, err := validator.ValidateBookRequest(&update)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	book.ID = request.RouteIntParam(r, "id")

	book, err = h.store.UpdateBook(r.Context(), book, genreIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "id")
	if err := h.store.DeleteBook(r.Context(), bookID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.storage.RemoveCover(bookID); err != nil {
		log.Warn("Failed to remove cover of deleted book", zap.Int("book_id", bookID), zap.Error(err))
	}
	response.NoContent(w, r)
}

// uploadCover takes a multipart "cover" file in any common image format and
// stores it as WebP.
func (h *Handler) uploadCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
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

	maxSize := int64(defaultMaxUploadSize)
	if config.Opts != nil && config.Opts.MaxUploadSize > 0 {
		maxSize = config.Opts.MaxUploadSize << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "invalid cover upload"))
		return
	}
	file, _, err := r.FormFile("cover")
	if err != nil {
		response.BadRequest(w, r, errors.Wrap(err, "missing cover file"))
		return
	}
	defer file.Close()

	if _, err := h.storage.SaveCover(bookID, file); err != nil {
		log.Warn("Failed to save cover", zap.Int("book_id", bookID), zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := h.store.SetBookCover(ctx, bookID, true); err != nil {
		response.ServerError(w, r, err)
		return
	}
	book.HasCover = true
	response.OK(w, r, book)
}

func (h *Handler) getCover(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "id")
	if !h.storage.HasCover(bookID) {
		response.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, h.storage.CoverPath(bookID))
}
