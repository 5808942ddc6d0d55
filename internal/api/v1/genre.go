package v1

import (
	"encoding/json"
	"net/http"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.store.ListGenres(r.Context(), &model.FindGenre{})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, genres)
}

func (h *Handler) getGenre(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genreID := request.RouteIntParam(r, "id")
	genre, err := h.store.GetGenre(ctx, genreID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if genre == nil {
		response.NotFound(w, r)
		return
	}

	books, err := h.store.ListBooks(ctx, &model.FindBook{GenreID: &genreID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, &model.GenreDetail{Genre: genre, Books: books})
}

func (h *Handler) createGenre(w http.ResponseWriter, r *http.Request) {
	var create model.GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	genre, err := h.store.CreateGenre(r.Context(), &model.Genre{Name: create.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, r, genre)
}

func (h *Handler) updateGenre(w http.ResponseWriter, r *http.Request) {
	var update model.GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.Struct(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	genre, err := h.store.UpdateGenre(r.Context(), &model.Genre{ID: request.RouteIntParam(r, "id"), Name: update.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, genre)
}

func (h *Handler) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGenre(r.Context(), request.RouteIntParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
