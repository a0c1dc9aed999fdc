package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidInput       = "Invalid request body"
	msgInternal           = "Internal server error"
)

// UserService is the account logic the handlers depend on.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*services.Session, error)
	Login(ctx context.Context, identifier, password string) (*services.Session, error)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type sessionResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

type meResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	users  UserService
	logger logging.Logger
}

func NewHandler(us UserService, l logging.Logger) *Handler {
	return &Handler{users: us, logger: l.With("module", "rest_handler")}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}

	session, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, common.ErrorAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": msgUserExists})
		default:
			h.logger.Error(c.Request.Context(), "register failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		}
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidInput})
		return
	}

	session, err := h.users.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

// Me echoes the identity carried by the caller's token.
func (h *Handler) Me(c *gin.Context) {
	claims, err := ClaimsFromGin(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.PublicMessage(err)})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:        claims.SubjectID,
		Email:     claims.Email,
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}

func toSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{
		ID:       s.User.ID,
		Email:    s.User.Email,
		Username: s.User.Username,
		Token:    s.Token,
	}
}
