package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Xunop/e-library/internal/api/auth"
	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/http/response"
	"github.com/Xunop/e-library/internal/log"
	"github.com/Xunop/e-library/internal/model"
	"github.com/Xunop/e-library/internal/validator"
)

type signInResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
	ExpiresTs   int64       `json:"expires_ts"`
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var signin model.UserSigninRequest
	if err := json.NewDecoder(r.Body).Decode(&signin); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	generalSetting, err := h.store.GetSystemGeneralSetting(ctx)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if generalSetting.DisallowPasswordLogin {
		log.Debug("Password login is disabled")
		response.Forbidden(w, r)
		return
	}

	user, err := h.store.GetUser(ctx, &model.FindUser{Username: &signin.Username})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil || user.RowStatus == model.Archived {
		log.Warn("Sign in with unknown user", zap.String("username", signin.Username))
		response.Unauthorized(w, r)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signin.Password)); err != nil {
		log.Warn("Sign in with wrong password", zap.String("username", signin.Username))
		response.Unauthorized(w, r)
		return
	}

	expireTime := time.Now().Add(auth.AccessTokenDuration())
	if signin.NeverExpire {
		// Set the expire time to 100 years.
		expireTime = time.Now().Add(100 * 365 * 24 * time.Hour)
	}
	accessToken, err := auth.GenerateAccessToken(user.Username, user.ID, expireTime, []byte(h.secret))
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if err := h.store.UpsertAccessToken(ctx, user.ID, &model.AccessToken{
		AccessToken: accessToken,
		Description: "User sign in",
		CreatedTs:   time.Now().Unix(),
	}); err != nil {
		log.Error("Failed to store access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if err := h.store.SetLastLogin(ctx, user.ID); err != nil {
		log.Warn("Failed to update last login", zap.Error(err))
	}

	http.SetCookie(w, buildAccessTokenCookie(r, accessToken, expireTime))
	response.OK(w, r, &signInResponse{
		User:        response.UserResponse(user),
		AccessToken: accessToken,
		ExpiresTs:   expireTime.Unix(),
	})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	generalSetting, err := h.store.GetSystemGeneralSetting(ctx)
	if err != nil {
		log.Error("Failed to get general system setting", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	userCount, err := h.store.CountUsers(ctx)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	// The very first account can always be created, it becomes the host.
	if generalSetting.DisableSignup && userCount > 0 {
		log.Debug("Signup is disabled")
		response.Forbidden(w, r)
		return
	}

	var signup model.UserSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&signup); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateSignupRequest(ctx, h.store, &signup); err != nil {
		log.Debug("Invalid signup request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	role := model.RoleUser
	if userCount == 0 {
		role = model.RoleHost
	}

	user, err := h.store.CreateUser(ctx, &model.User{
		Username:     signup.Username,
		Role:         role,
		Email:        signup.Email,
		Nickname:     signup.Nickname,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	log.Info("User signed up", zap.String("username", user.Username), zap.String("role", user.Role.String()))
	response.Created(w, r, response.UserResponse(user))
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	if err := h.store.RemoveAccessToken(r.Context(), userID, request.GetAccessToken(r)); err != nil {
		log.Error("Failed to remove access token", zap.Error(err))
		response.ServerError(w, r, errors.Wrap(err, "failed to sign out"))
		return
	}
	http.SetCookie(w, buildAccessTokenCookie(r, "", time.Unix(0, 0)))
	response.NoContent(w, r)
}

func buildAccessTokenCookie(r *http.Request, accessToken string, expireTime time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     auth.AccessTokenCookieName,
		Value:    accessToken,
		Path:     "/",
		Expires:  expireTime,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	// Cross origin frontends need SameSite=None, which browsers only accept with Secure.
	if origin := r.Header.Get("Origin"); origin != "" && r.TLS != nil {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	return cookie
}
