package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/util"
)

// PostHandler serves the community board.
type PostHandler struct {
	Store storage.Ledger
}

func NewPostHandler(store storage.Ledger) *PostHandler {
	return &PostHandler{Store: store}
}

// List returns every post.
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.Store.Posts(c.Request.Context())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load posts")
		return
	}
	util.Success(c, util.Response{"posts": posts})
}

// GetByID returns one post, counting the read in its hit counter.
func (h *PostHandler) GetByID(c *gin.Context) {
	pid, err := primitive.ObjectIDFromHex(c.Param("cid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	post, err := h.Store.PostByIDAndHit(c.Request.Context(), pid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load post")
		return
	}
	if post == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		return
	}

	util.Success(c, util.Response{"post": post})
}

// ListByWriter returns the posts written by one user.
func (h *PostHandler) ListByWriter(c *gin.Context) {
	uid, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid user id")
		return
	}

	posts, err := h.Store.PostsByWriter(c.Request.Context(), uid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load posts")
		return
	}
	if len(posts) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no posts for this user")
		return
	}

	util.Success(c, util.Response{"posts": posts})
}

type postReq struct {
	Category string `json:"category" binding:"required,max=32"`
	Title    string `json:"title" binding:"required,max=128"`
	Content  string `json:"content" binding:"required"`
}

// Create inserts a post carrying the caller's writer snapshot and appends
// the reference to the caller in one grouped write.
func (h *PostHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post request")
		return
	}

	post := models.Post{
		ID: primitive.NewObjectID(),
		// snapshot of the author at creation time, never live-updated
		Writer: models.Writer{
			UID:   caller.ID,
			Name:  caller.Name,
			Image: caller.Image,
		},
		Date:     time.Now(),
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
		Hit:      0,
		Like:     []primitive.ObjectID{},
		Comments: []primitive.ObjectID{},
	}

	err := h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.InsertPost(ctx, &post); err != nil {
			return err
		}
		return h.Store.AddPostRef(ctx, caller.ID, post.ID)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save post")
		return
	}

	util.Created(c, util.Response{"post": post})
}

// Update edits an owned post's category, title and content.
func (h *PostHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	pid, err := primitive.ObjectIDFromHex(c.Param("cid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	post, err := h.Store.PostByID(c.Request.Context(), pid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load post")
		return
	}
	if post == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		return
	}
	if post.Writer.UID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to edit this post")
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post request")
		return
	}

	post.Category = req.Category
	post.Title = req.Title
	post.Content = req.Content

	if err := h.Store.UpdatePost(c.Request.Context(), post); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update post")
		return
	}

	util.Success(c, util.Response{"post": post})
}

// Delete removes an owned post and its owner reference in one grouped
// write.
func (h *PostHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	pid, err := primitive.ObjectIDFromHex(c.Param("cid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	post, err := h.Store.PostByID(c.Request.Context(), pid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load post")
		return
	}
	if post == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		return
	}
	if post.Writer.UID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to delete this post")
		return
	}

	err = h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.DeletePost(ctx, pid); err != nil {
			return err
		}
		return h.Store.RemovePostRef(ctx, post.Writer.UID, pid)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete post")
		return
	}

	util.Success(c, util.Response{"message": "post deleted", "postId": pid.Hex()})
}

// ToggleLike flips the caller's like on a post. The post's like set and the
// caller's likedPosts list move together in one grouped write.
func (h *PostHandler) ToggleLike(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	pid, err := primitive.ObjectIDFromHex(c.Param("cid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	post, err := h.Store.PostByID(c.Request.Context(), pid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load post")
		return
	}
	if post == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "post not found")
		return
	}

	liked := post.Liked(caller.ID)
	err = h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if liked {
			if err := h.Store.RemovePostLike(ctx, pid, caller.ID); err != nil {
				return err
			}
			return h.Store.RemoveLikedPostRef(ctx, caller.ID, pid)
		}
		if err := h.Store.AddPostLike(ctx, pid, caller.ID); err != nil {
			return err
		}
		return h.Store.AddLikedPostRef(ctx, caller.ID, pid)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update like")
		return
	}

	util.Success(c, util.Response{"message": "like updated", "liked": !liked})
}
