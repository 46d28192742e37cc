// Package handler contains the HTTP controllers. Each handler converts
// exactly one failure into one error envelope; grouped writes go through
// storage.Ledger.GroupedWrite so multi-entity mutations never apply
// partially.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/middleware"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// currentUser pulls the authenticated user injected by the auth
// middleware. The bool is false when the route is reached without it, which
// is a routing bug surfaced as 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}
	return user, true
}

// publicUser is the user shape returned by the API.
type publicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

func toPublicUser(u *models.User) publicUser {
	return publicUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
	}
}
