package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-library/internal/api/auth"
	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/store"
	"github.com/Xunop/e-library/internal/util"
)

type AuthInterceptor struct {
	store  *store.Store
	secret string
}

func NewAuthInterceptor(store *store.Store, secret string) *AuthInterceptor {
	return &AuthInterceptor{store: store, secret: secret}
}

func (m *AuthInterceptor) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUnauthorizeAllowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		clientIP := request.ClientIP(r)
		accessToken := getAccessToken(r)

		user, err := m.authenticate(r.Context(), accessToken)
		if err != nil {
			log.Debug("Failed to authenticate user",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(err),
			)
			response.Unauthorized(w, r)
			return
		}

		if route := mux.CurrentRoute(r); route != nil && isOnlyForAdminAllowedRoute(route.GetName()) && !user.Role.IsSuperuser() {
			log.Debug("Librarian route refused",
				zap.String("client_ip", clientIP),
				zap.String("route", route.GetName()),
				zap.String("username", user.Username),
			)
			response.Forbidden(w, r)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.UserIDContextKey, user.ID)
		ctx = context.WithValue(ctx, request.UserNameContextKey, user.Username)
		ctx = context.WithValue(ctx, request.UserRolesContextKey, user.Role)
		ctx = context.WithValue(ctx, request.AccessTokenContextKey, accessToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthInterceptor) authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	if accessToken == "" {
		return nil, errors.New("no access token provided")
	}
	claims, err := auth.ParseAccessToken(accessToken, []byte(m.secret))
	if err != nil {
		return nil, err
	}

	userID, err := util.ConvertStringToInt32(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "malformed ID in the token")
	}
	user, err := m.store.GetUser(ctx, &model.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	if user == nil {
		return nil, errors.Errorf("user not found with ID: %d", userID)
	}
	if user.RowStatus == model.Archived {
		return nil, errors.Errorf("user is archived with ID: %d", userID)
	}

	// Signed out tokens are removed from the user settings.
	valid, err := m.store.ValidateAccessToken(ctx, userID, accessToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user access tokens")
	}
	if !valid {
		return nil, errors.New("invalid access token")
	}
	return user, nil
}

func getAccessToken(r *http.Request) string {
	// Check the HTTP Authorization header first
	if authorization := r.Header.Get("Authorization"); authorization != "" {
		if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
			return token
		}
	}

	if cookie, err := r.Cookie(auth.AccessTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
