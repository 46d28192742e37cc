package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	Store      storage.Ledger
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(store storage.Ledger, jwtSecret string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthHandler{
		Store:      store,
		JWTSecret:  jwtSecret,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type signupReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Image    string `json:"image" binding:"max=512"`
}

// Signup registers a new user. Emails are unique across all users.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid signup request")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := h.Store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check existing email")
		return
	}
	if existing != nil {
		util.Error(c, http.StatusUnprocessableEntity, util.CodeDuplicate, "email is already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Image:        req.Image,
		Budgets:      []models.Budget{},
		Transactions: []primitive.ObjectID{},
		Posts:        []primitive.ObjectID{},
		LikedPosts:   []primitive.ObjectID{},
		Comments:     []primitive.ObjectID{},
	}
	// unique index on email backs up the check above for concurrent signups
	if err := h.Store.InsertUser(c.Request.Context(), &user); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create user")
		return
	}

	util.Created(c, util.Response{"user": toPublicUser(&user)})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid login request")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.Store.UserByEmail(c.Request.Context(), email)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to look up user")
		return
	}
	// same message for unknown email and wrong password
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "email or password is incorrect")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "email or password is incorrect")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID.Hex(), h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to issue token")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user":  toPublicUser(user),
	})
}
