package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/service"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

type tokenValidator interface {
	ValidateToken(raw string) (*models.SessionClaims, error)
}

// credentialFrom assembles the caller's credential from, in order of
// precedence: an explicit password (payload or query) and a Bearer session
// token. A malformed or expired token is an authentication attempt and
// fails here rather than silently degrading to the public view.
func credentialFrom(c *gin.Context, auth tokenValidator, bodyPassword string) (service.Credential, error) {
	cred := service.Credential{Password: bodyPassword}
	if cred.Password == "" {
		cred.Password = c.Query("password")
	}

	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return cred, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			return cred, err
		}
		cred.Claims = claims
	}

	return cred, nil
}
