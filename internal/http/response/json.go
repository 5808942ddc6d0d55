package response // import "github.com/Xunop/e-library/internal/http/response"

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Xunop/e-library/internal/http/request"
	"github.com/Xunop/e-library/internal/log"
)

const contentTypeHeader = `application/json`

// OK creates a new JSON response with a 200 status code.
func OK(w http.ResponseWriter, r *http.Request, body interface{}) {
	writeJSON(w, r, http.StatusOK, toJSON(body))
}

// Created sends a created response to the client.
func Created(w http.ResponseWriter, r *http.Request, body interface{}) {
	writeJSON(w, r, http.StatusCreated, toJSON(body))
}

// NoContent sends a no content response to the client.
func NoContent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusNoContent, nil)
}

// Conflict sends a refused lending decision, or any other body explaining
// why the current state does not allow the request.
func Conflict(w http.ResponseWriter, r *http.Request, body interface{}) {
	logFailure(zapcore.InfoLevel, r, http.StatusConflict)
	writeJSON(w, r, http.StatusConflict, toJSON(body))
}

// ServerError sends an internal error to the client.
func ServerError(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(zapcore.ErrorLevel, r, http.StatusInternalServerError, zap.Error(err))
	writeJSON(w, r, http.StatusInternalServerError, toJSONError(err))
}

// BadRequest sends a bad request error to the client.
func BadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logFailure(zapcore.WarnLevel, r, http.StatusBadRequest, zap.Any("error", err))
	writeJSON(w, r, http.StatusBadRequest, toJSONError(err))
}

// Unauthorized sends a not authorized error to the client.
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	logFailure(zapcore.WarnLevel, r, http.StatusUnauthorized)
	writeJSON(w, r, http.StatusUnauthorized, toJSONError(errors.New("access unauthorized")))
}

// Forbidden sends a forbidden error to the client.
func Forbidden(w http.ResponseWriter, r *http.Request) {
	logFailure(zapcore.WarnLevel, r, http.StatusForbidden)
	writeJSON(w, r, http.StatusForbidden, toJSONError(errors.New("access forbidden")))
}

// NotFound sends a page not found error to the client.
func NotFound(w http.ResponseWriter, r *http.Request) {
	logFailure(zapcore.WarnLevel, r, http.StatusNotFound)
	writeJSON(w, r, http.StatusNotFound, toJSONError(errors.New("resource not found")))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	builder := New(w, r)
	builder.WithStatus(status)
	builder.WithHeader("Content-Type", contentTypeHeader)
	builder.WithBody(body)
	builder.Write()
}

func logFailure(level zapcore.Level, r *http.Request, status int, fields ...zap.Field) {
	fields = append(fields,
		zap.String("client_ip", request.ClientIP(r)),
		zap.String("request.method", r.Method),
		zap.String("request.uri", r.RequestURI),
		zap.String("request.user_agent", r.UserAgent()),
		zap.Int("response.status_code", status),
	)
	if ce := log.Logger.Check(level, http.StatusText(status)); ce != nil {
		ce.Write(fields...)
	}
}

func toJSONError(err error) []byte {
	type errorMsg struct {
		ErrorMessage string `json:"error_message"`
	}

	return toJSON(errorMsg{ErrorMessage: err.Error()})
}

func toJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Unable to marshal JSON response", zap.Any("error", err))
		return []byte("")
	}

	return b
}
