package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/config"
	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

const defaultAuthorsPerPage = 10

type authorListResponse struct {
	Authors []*model.AuthorDetail `json:"authors"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
	Total   int                   `json:"total"`
}

func authorsPerPage() int {
	if config.Opts != nil && config.Opts.Lending.AuthorsPerPage > 0 {
		return config.Opts.Lending.AuthorsPerPage
	}
	return defaultAuthorsPerPage
}

// listAuthors returns one page of authors ordered by last name, ?page= starts at 1.
func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := request.QueryIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := authorsPerPage()
	offset := (page - 1) * perPage

	authors, err := h.store.ListAuthors(ctx, &model.FindAuthor{Limit: &perPage, Offset: &offset})
	if err != nil {
		log.Error("Failed to list authors", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	total, err := h.store.CountAuthors(ctx)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	list := make([]*model.AuthorDetail, 0, len(authors))
	for _, author := range authors {
		list = append(list, &model.AuthorDetail{Author: author, Name: author.DisplayName()})
	}
	response.OK(w, r, &authorListResponse{Authors: list, Page: page, PerPage: perPage, Total: total})
}

func (h *Handler) getAuthor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authorID := request.RouteIntParam(r, "id")
	author, err := h.store.GetAuthor(ctx, authorID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if author == nil {
		response.NotFound(w, r)
		return
	}

	books, err := h.store.ListBooks(ctx, &model.FindBook{AuthorID: &authorID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, &model.AuthorDetail{Author: author, Name: author.DisplayName(), Books: books})
}

func (h *Handler) createAuthor(w http.ResponseWriter, r *http.Request) {
	var create model.AuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	author, err := validator.ValidateAuthorRequest(&create)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	author, err = h.store.CreateAuthor(r.Context(), author)
	if err != nil {
		log.Error("Failed to create author", zap.Error(err))
		writeError(w, r, err)
		return
	}
	response.Created(w, r, &model.AuthorDetail{Author: author, Name: author.DisplayName()})
}

func (h *Handler) updateAuthor(w http.ResponseWriter, r *http.Request) {
	var update model.AuthorRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	author, err := validator.ValidateAuthorRequest(&update)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	author.ID = request.RouteIntParam(r, "id")

	author, err = h.store.UpdateAuthor(r.Context(), author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, &model.AuthorDetail{Author: author, Name: author.DisplayName()})
}

func (h *Handler) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAuthor(r.Context(), request.RouteIntParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
