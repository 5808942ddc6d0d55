package request // import "github.com/Xunop/e-library/internal/http/request"

import (
	"net/http"

	"github.com/Xunop/e-library/internal/model"
)

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	UserIDContextKey
	UserNameContextKey
	UserRolesContextKey
	AccessTokenContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	if ip := getContextStringValue(r, ClientIPContextKey); ip != "" {
		return ip
	}
	return FindClientIP(r)
}

// GetUserID returns the authenticated user ID, 0 for anonymous requests.
func GetUserID(r *http.Request) int32 {
	if v, ok := r.Context().Value(UserIDContextKey).(int32); ok {
		return v
	}
	return 0
}

func GetUsername(r *http.Request) string {
	return getContextStringValue(r, UserNameContextKey)
}

func GetUserRole(r *http.Request) model.Role {
	if v, ok := r.Context().Value(UserRolesContextKey).(model.Role); ok {
		return v
	}
	return model.Role(getContextStringValue(r, UserRolesContextKey))
}

// GetAccessToken returns the token the request was authenticated with.
func GetAccessToken(r *http.Request) string {
	return getContextStringValue(r, AccessTokenContextKey)
}
