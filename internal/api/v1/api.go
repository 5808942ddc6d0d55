package v1

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/Xunop/e-library/internal/lending"
	"github.com/Xunop/e-library/internal/middleware"
	"github.com/Xunop/e-library/internal/notify"
	"github.com/Xunop/e-library/internal/storage"
	"github.com/Xunop/e-library/internal/store"
)

type Handler struct {
	store   *store.Store
	service *lending.Service
	storage *storage.LocalStorage
	hub     *notify.Hub
	// For JWT
	secret string
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(store *store.Store, service *lending.Service, storage *storage.LocalStorage, hub *notify.Hub) *Handler {
	return &Handler{
		store:   store,
		service: service,
		storage: storage,
		hub:     hub,
	}
}

// Serve mounts the /api/v1 routes on router.
func Serve(ctx context.Context, router *mux.Router, handler *Handler) error {
	sSetting, err := handler.store.GetOrUpsertSystemSecuritySetting(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get security setting")
	}
	handler.secret = sSetting.JWTSecret

	sr := router.PathPrefix("/api/v1").Subrouter()
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.LoggingRequest)
	sr.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/signup", handler.signUp).Methods(http.MethodPost).Name("signUp")
	sr.HandleFunc("/signin", handler.signIn).Methods(http.MethodPost).Name("signIn")
	sr.HandleFunc("/signout", handler.signOut).Methods(http.MethodPost).Name("signOut")
	sr.HandleFunc("/users", handler.listUsers).Methods(http.MethodGet).Name("listUsers")
	sr.HandleFunc("/user/{id:[0-9]+}/role", handler.updateUserRole).Methods(http.MethodPut).Name("updateUserRole")
	sr.HandleFunc("/settings/general", handler.getGeneralSettings).Methods(http.MethodGet).Name("getGeneralSettings")
	sr.HandleFunc("/settings/general", handler.setGeneralSettings).Methods(http.MethodPost).Name("setGeneralSettings")

	sr.HandleFunc("/index", handler.index).Methods(http.MethodGet).Name("index")

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet).Name("listBooks")
	sr.HandleFunc("/book", handler.createBook).Methods(http.MethodPost).Name("createBook")
	sr.HandleFunc("/book/{id:[0-9]+}", handler.getBook).Methods(http.MethodGet).Name("getBook")
	sr.HandleFunc("/book/{id:[0-9]+}", handler.updateBook).Methods(http.MethodPut).Name("updateBook")
	sr.HandleFunc("/book/{id:[0-9]+}", handler.deleteBook).Methods(http.MethodDelete).Name("deleteBook")
	sr.HandleFunc("/book/{id:[0-9]+}/cover", handler.uploadCover).Methods(http.MethodPost).Name("uploadCover")
	sr.HandleFunc("/covers/{id:[0-9]+}", handler.getCover).Methods(http.MethodGet).Name("getCover")
	sr.HandleFunc("/book/{id:[0-9]+}/borrow", handler.borrowBook).Methods(http.MethodPost).Name("borrowBook")
	sr.HandleFunc("/book/{id:[0-9]+}/reviews", handler.createReview).Methods(http.MethodPost).Name("createReview")
	sr.HandleFunc("/review/{id:[0-9]+}", handler.deleteReview).Methods(http.MethodDelete).Name("deleteReview")

	sr.HandleFunc("/authors", handler.listAuthors).Methods(http.MethodGet).Name("listAuthors")
	sr.HandleFunc("/author", handler.createAuthor).Methods(http.MethodPost).Name("createAuthor")
	sr.HandleFunc("/author/{id:[0-9]+}", handler.getAuthor).Methods(http.MethodGet).Name("getAuthor")
	sr.HandleFunc("/author/{id:[0-9]+}", handler.updateAuthor).Methods(http.MethodPut).Name("updateAuthor")
	sr.HandleFunc("/author/{id:[0-9]+}", handler.deleteAuthor).Methods(http.MethodDelete).Name("deleteAuthor")

	sr.HandleFunc("/genres", handler.listGenres).Methods(http.MethodGet).Name("listGenres")
	sr.HandleFunc("/genre", handler.createGenre).Methods(http.MethodPost).Name("createGenre")
	sr.HandleFunc("/genre/{id:[0-9]+}", handler.getGenre).Methods(http.MethodGet).Name("getGenre")
	sr.HandleFunc("/genre/{id:[0-9]+}", handler.updateGenre).Methods(http.MethodPut).Name("updateGenre")
	sr.HandleFunc("/genre/{id:[0-9]+}", handler.deleteGenre).Methods(http.MethodDelete).Name("deleteGenre")

	sr.HandleFunc("/copies", handler.listCopies).Methods(http.MethodGet).Name("listCopies")
	sr.HandleFunc("/copy", handler.createCopy).Methods(http.MethodPost).Name("createCopy")
	sr.HandleFunc("/copy/{id}/status", handler.setCopyStatus).Methods(http.MethodPut).Name("setCopyStatus")
	sr.HandleFunc("/copy/{id}", handler.deleteCopy).Methods(http.MethodDelete).Name("deleteCopy")
	sr.HandleFunc("/copy/{id}/return", handler.returnCopy).Methods(http.MethodPost).Name("returnCopy")
	sr.HandleFunc("/copy/{id}/renew", handler.renewForm).Methods(http.MethodGet).Name("renewForm")
	sr.HandleFunc("/copy/{id}/renew", handler.renewCopy).Methods(http.MethodPost).Name("renewCopy")
	sr.HandleFunc("/mybooks", handler.myBooks).Methods(http.MethodGet).Name("myBooks")
	sr.HandleFunc("/borrowed", handler.allBorrowed).Methods(http.MethodGet).Name("allBorrowed")

	sr.HandleFunc("/notifications", handler.listNotifications).Methods(http.MethodGet).Name("listNotifications")
	sr.HandleFunc("/notification/{id:[0-9]+}/read", handler.markNotificationRead).Methods(http.MethodPost).Name("markNotificationRead")
	sr.HandleFunc("/ws", handler.notificationStream).Methods(http.MethodGet).Name("notificationStream")

	return nil
}
