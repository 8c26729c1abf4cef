package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptrefiner/internal/utils"
	"github.com/llmgate/promptrefiner/session"
)

const (
	sessionContextKey = "session"
	csrfHeaderKey     = "X-CSRFToken"
	csrfAltHeaderKey  = "X-CSRF-Token"
	csrfFormKey       = "csrf_token"
)

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionMiddleware loads the session named by the cookie or starts a new one.
func SessionMiddleware(store *session.Store, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)
		sess, ok := store.Get(id)
		if !ok {
			sess = store.Create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sess.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Session{}
}

// CSRFMiddleware requires the session's token on unsafe methods, in a header or the csrf_token form field.
func CSRFMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		expected := currentSession(c).CSRFToken
		token := c.GetHeader(csrfHeaderKey)
		if token == "" {
			token = c.GetHeader(csrfAltHeaderKey)
		}
		if token == "" {
			token = c.PostForm(csrfFormKey)
		}

		if token == "" {
			utils.ProcessCSRFFailure(c, "The CSRF token is missing.")
			return
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			utils.ProcessCSRFFailure(c, "The CSRF token is invalid.")
			return
		}
		c.Next()
	}
}

type CSRFHandler struct{}

func NewCSRFHandler() *CSRFHandler {
	return &CSRFHandler{}
}

func (h *CSRFHandler) Token(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": currentSession(c).CSRFToken})
}
