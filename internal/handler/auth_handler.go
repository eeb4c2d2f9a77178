package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dassimern/kosher-directory-api/internal/service"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
	"github.com/dassimern/kosher-directory-api/pkg/response"
)

type sessionIssuer interface {
	Login(password string) (*service.LoginResponse, error)
}

// AuthHandler exposes the moderator login endpoint.
type AuthHandler struct {
	auth sessionIssuer
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth sessionIssuer) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login godoc
// @Summary Exchange the moderator password for a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.auth.Login(req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}
