package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/omdb"
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes returned to clients.
const (
	CodeMissingFields      = "MISSING_FIELDS"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeUpstream           = "UPSTREAM_ERROR"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternal           = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{common.ErrMissingFields, http.StatusBadRequest, CodeMissingFields, "Required fields missing"},
	{common.ErrWeakPassword, http.StatusBadRequest, CodeWeakPassword, "Password must be 8 to 72 bytes long and at least 8 characters"},
	{common.ErrDuplicateEmail, http.StatusConflict, CodeDuplicateEmail, "Email already registered"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials"},
	{common.ErrorNotFound, http.StatusNotFound, CodeNotFound, "Not found"},
	{omdb.ErrNoAPIKey, http.StatusServiceUnavailable, CodeUnavailable, "Movie catalog is not configured"},
	{omdb.ErrUpstream, http.StatusBadGateway, CodeUpstream, "Movie catalog request failed"},
}

// classifyError maps err to status, code and a client-safe message.
func classifyError(err error) (int, errorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, errorResponse{Error: m.message, Code: m.code}
		}
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal error", Code: CodeInternal}
}

// writeError is the single place errors become HTTP responses. Details of
// unexpected errors stay in the server log.
func writeError(c *gin.Context, l logging.Logger, err error) {
	status, body := classifyError(err)
	if status >= http.StatusInternalServerError {
		l.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
	}
	c.AbortWithStatusJSON(status, body)
}
