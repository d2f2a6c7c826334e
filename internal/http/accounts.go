package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/errors"
	"github.com/badreads/badreads/internal/ratelimit"
	"github.com/badreads/badreads/internal/services"
)

type AccountsController struct {
	auth     services.Authenticator
	users    services.UserReader
	sessions *auth.SessionManager
	limiter  *ratelimit.KeyedRateLimiter
	log      *zap.Logger
}

func NewAccountsController(a services.Authenticator, users services.UserReader, sessions *auth.SessionManager, limiter *ratelimit.KeyedRateLimiter, log *zap.Logger) *AccountsController {
	return &AccountsController{auth: a, users: users, sessions: sessions, limiter: limiter, log: log}
}

type createAccountRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"max=128"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateAccount registers a user and logs them in.
// POST /api/accounts
func (ac *AccountsController) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, a valid email and password are required")
		return
	}

	session, user, err := ac.auth.CreateAccount(c.Request.Context(), req.Username, req.Name, req.Email, req.Password)
	if err != nil {
		respondDomainError(c, ac.log, err, "create account")
		return
	}
	if err := ac.sessions.Start(c.Request, session); err != nil {
		respondDomainError(c, ac.log, err, "start session")
		return
	}
	auth.SetSession(c, session)

	ac.log.Info("Account created", zap.String("username", user.Username))
	respondCreated(c, gin.H{"session": session, "user": user})
}

// Login checks credentials and starts a cookie session.
// POST /api/login
func (ac *AccountsController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	key := c.ClientIP() + ":" + req.Username
	if ac.limiter != nil && !ac.limiter.Allow(key) {
		retryAfter := ac.limiter.RetryAfter(key)
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many login attempts"})
		return
	}

	session, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errors.ErrBadCredentials) {
			ac.log.Warn("Failed login", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
		}
		respondDomainError(c, ac.log, err, "login")
		return
	}
	if ac.limiter != nil {
		ac.limiter.Reset(key)
	}
	if err := ac.sessions.Start(c.Request, session); err != nil {
		respondDomainError(c, ac.log, err, "start session")
		return
	}
	auth.SetSession(c, session)

	c.JSON(http.StatusOK, session)
}

// Logout ends the current session.
// POST /api/logout
func (ac *AccountsController) Logout(c *gin.Context) {
	session := auth.CurrentSession(c)
	if err := ac.auth.Logout(session); err != nil {
		respondDomainError(c, ac.log, err, "logout")
		return
	}
	if err := ac.sessions.End(c.Request); err != nil {
		respondDomainError(c, ac.log, err, "end session")
		return
	}
	auth.SetSession(c, auth.Session{})

	respondSuccess(c, "logged out")
}

// Session returns the current session.
// GET /api/session
func (ac *AccountsController) Session(c *gin.Context) {
	session := auth.CurrentSession(c)
	if !session.Active() {
		respondDomainError(c, ac.log, errors.ErrNoActiveSession, "session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// CSRFToken hands out the token clients send back in X-CSRF-Token.
// GET /api/csrf
func (ac *AccountsController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"token": auth.GetCSRFToken(c)})
}

// GetUser returns a public profile.
// GET /api/users/:username
func (ac *AccountsController) GetUser(c *gin.Context) {
	user, err := ac.users.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondDomainError(c, ac.log, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}
