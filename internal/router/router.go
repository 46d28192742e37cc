package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/config"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/handler"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/middleware"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
)

// Setup wires the gin engine and the API route table.
func Setup(cfg *config.Config, store storage.Ledger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(store, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	userHandler := handler.NewUserHandler(store)
	budgetHandler := handler.NewBudgetHandler(store)
	txHandler := handler.NewTransactionHandler(store)
	postHandler := handler.NewPostHandler(store)
	commentHandler := handler.NewCommentHandler(store)
	challengeHandler := handler.NewChallengeHandler(store)
	exportHandler := handler.NewExportHandler(store)

	// public routes
	api.POST("/users/signup", authHandler.Signup)
	api.POST("/users/login", authHandler.Login)
	api.GET("/users", userHandler.List)

	api.GET("/transactions/:tid", txHandler.GetByID)
	api.GET("/transactions/user/:uid", txHandler.ListByUser)

	api.GET("/community", postHandler.List)
	api.GET("/community/:cid", postHandler.GetByID)
	api.GET("/community/user/:uid", postHandler.ListByWriter)

	api.GET("/comments/:cid", commentHandler.ListByPost)
	api.GET("/comments/user/:uid", commentHandler.ListByAuthor)

	api.GET("/challenge/:date", challengeHandler.Global)
	api.GET("/challenge/similar/:date/:budget", challengeHandler.Similar)

	// routes requiring a signed-in caller
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWT.Secret, store))

	protected.GET("/users/budget/:uid/:date", budgetHandler.GetByMonth)
	protected.PATCH("/users/budget/:uid/:bid", budgetHandler.Update)

	protected.POST("/transactions", txHandler.Create)
	protected.PATCH("/transactions/:tid", txHandler.Update)
	protected.DELETE("/transactions/:tid", txHandler.Delete)

	protected.POST("/community", postHandler.Create)
	protected.PATCH("/community/:cid", postHandler.Update)
	protected.DELETE("/community/:cid", postHandler.Delete)
	protected.PATCH("/community/:cid/like", postHandler.ToggleLike)

	protected.POST("/comments", commentHandler.Create)
	protected.PATCH("/comments/:rid", commentHandler.Update)
	protected.DELETE("/comments/:rid", commentHandler.Delete)

	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	return r
}
