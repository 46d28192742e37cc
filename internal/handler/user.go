package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// UserHandler serves user listing.
type UserHandler struct {
	Store storage.Ledger
}

func NewUserHandler(store storage.Ledger) *UserHandler {
	return &UserHandler{Store: store}
}

// List returns every user without credentials.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Store.Users(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load users")
		return
	}

	out := make([]publicUser, 0, len(users))
	for i := range users {
		out = append(out, toPublicUser(&users[i]))
	}
	util.Success(c, util.Response{"users": out})
}
