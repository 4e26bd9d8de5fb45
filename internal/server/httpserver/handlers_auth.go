package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

type loginResponse struct {
	OK       bool   `json:"ok"`
	Redirect string `json:"redirect,omitempty"`
}

type meResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// bindCredentials tolerates a missing or malformed body: the service then
// reports ErrMissingFields.
func bindCredentials(c *gin.Context, dst any) {
	_ = c.ShouldBindJSON(dst)
}

func (s *HTTPServer) register(c *gin.Context) {
	var req services.Credentials
	bindCredentials(c, &req)

	user, err := s.users.Register(c.Request.Context(), req)
	s.countAuth("register", err)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	s.logger.Info(c.Request.Context(), "Registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	bindCredentials(c, &req)

	sess, err := s.users.Login(c.Request.Context(), services.Credentials{Email: req.Email, Password: req.Password})
	s.countAuth("login", err)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	setSessionCookie(c.Writer, sess.Token, sess.Lifetime, s.cookies)

	from := req.From
	if from == "" {
		from = c.Query(common.RedirectParam)
	}
	c.JSON(http.StatusOK, loginResponse{OK: true, Redirect: SafeRedirect(from)})
}

func (s *HTTPServer) logout(c *gin.Context) {
	clearSessionCookie(c.Writer, s.cookies)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *HTTPServer) me(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		writeError(c, s.logger, errNoClaims)
		return
	}
	c.JSON(http.StatusOK, meResponse{UserID: claims.UserID, Email: claims.Email})
}

func (s *HTTPServer) countAuth(operation string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "OK"
	if err != nil {
		_, body := classifyError(err)
		outcome = body.Code
	}
	s.metrics.AuthAttempts.WithLabelValues(operation, outcome).Inc()
}
