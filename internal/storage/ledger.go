// Package storage owns all durable state. Every other component reads and
// writes through the Ledger interface; reads return a nil entity (not an
// error) when a document is simply absent.
package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
)

// Ledger is the entity store consumed by the handlers.
//
// Writes issued inside a GroupedWrite callback, using the context the
// callback receives, commit or abort as one unit. A grouped write that
// fails leaves the store exactly as it was before it began.
type Ledger interface {
	GroupedWrite(ctx context.Context, fn func(ctx context.Context) error) error

	// users
	InsertUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	SetUserBudgets(ctx context.Context, uid primitive.ObjectID, budgets []models.Budget) error
	AddTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error
	RemoveTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error
	AddPostRef(ctx context.Context, uid, pid primitive.ObjectID) error
	RemovePostRef(ctx context.Context, uid, pid primitive.ObjectID) error
	AddLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error
	RemoveLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error
	AddCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error
	RemoveCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error

	// transactions
	InsertTransaction(ctx context.Context, t *models.Transaction) error
	TransactionByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	TransactionsByUser(ctx context.Context, uid primitive.ObjectID) ([]models.Transaction, error)
	TransactionsByUsers(ctx context.Context, uids []primitive.ObjectID) (map[primitive.ObjectID][]models.Transaction, error)
	UpdateTransaction(ctx context.Context, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, id primitive.ObjectID) error

	// posts
	InsertPost(ctx context.Context, p *models.Post) error
	PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	PostByIDAndHit(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Posts(ctx context.Context) ([]models.Post, error)
	PostsByWriter(ctx context.Context, uid primitive.ObjectID) ([]models.Post, error)
	UpdatePost(ctx context.Context, p *models.Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	AddPostLike(ctx context.Context, pid, uid primitive.ObjectID) error
	RemovePostLike(ctx context.Context, pid, uid primitive.ObjectID) error
	AddPostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error
	RemovePostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error

	// comments
	InsertComment(ctx context.Context, cm *models.Comment) error
	CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	CommentsByPost(ctx context.Context, pid primitive.ObjectID) ([]models.Comment, error)
	CommentsByAuthor(ctx context.Context, uid primitive.ObjectID) ([]models.Comment, error)
	UpdateComment(ctx context.Context, cm *models.Comment) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
}
