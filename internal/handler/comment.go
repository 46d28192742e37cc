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

// CommentHandler serves post comments.
type CommentHandler struct {
	Store storage.Ledger
}

func NewCommentHandler(store storage.Ledger) *CommentHandler {
	return &CommentHandler{Store: store}
}

// ListByPost returns the comments on one post.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	pid, err := primitive.ObjectIDFromHex(c.Param("cid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid post id")
		return
	}

	comments, err := h.Store.CommentsByPost(c.Request.Context(), pid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load comments")
		return
	}

	util.Success(c, util.Response{"comments": comments})
}

// ListByAuthor returns the comments written by one user.
func (h *CommentHandler) ListByAuthor(c *gin.Context) {
	uid, err := primitive.ObjectIDFromHex(c.Param("uid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid user id")
		return
	}

	comments, err := h.Store.CommentsByAuthor(c.Request.Context(), uid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load comments")
		return
	}
	if len(comments) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no comments for this user")
		return
	}

	util.Success(c, util.Response{"comments": comments})
}

type createCommentReq struct {
	PostID  string `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required,max=1000"`
}

// Create inserts a comment and appends its reference to both the author and
// the post in one grouped write.
func (h *CommentHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid comment request")
		return
	}

	pid, err := primitive.ObjectIDFromHex(req.PostID)
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

	comment := models.Comment{
		ID:         primitive.NewObjectID(),
		PostID:     pid,
		AuthorID:   caller.ID,
		AuthorName: caller.Name, // snapshot, not live-synced
		Content:    req.Content,
		CreatedAt:  time.Now().UnixMilli(),
	}

	err = h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.InsertComment(ctx, &comment); err != nil {
			return err
		}
		if err := h.Store.AddCommentRef(ctx, caller.ID, comment.ID); err != nil {
			return err
		}
		return h.Store.AddPostCommentRef(ctx, pid, comment.ID)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save comment")
		return
	}

	util.Created(c, util.Response{"comment": comment})
}

type updateCommentReq struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// Update edits an owned comment's content.
func (h *CommentHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	cid, err := primitive.ObjectIDFromHex(c.Param("rid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid comment id")
		return
	}

	comment, err := h.Store.CommentByID(c.Request.Context(), cid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load comment")
		return
	}
	if comment == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "comment not found")
		return
	}
	if comment.AuthorID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to edit this comment")
		return
	}

	var req updateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid comment request")
		return
	}

	comment.Content = req.Content
	if err := h.Store.UpdateComment(c.Request.Context(), comment); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update comment")
		return
	}

	util.Success(c, util.Response{"comment": comment})
}

// Delete removes an owned comment and its references on both the author and
// the post in one grouped write.
func (h *CommentHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}

	cid, err := primitive.ObjectIDFromHex(c.Param("rid"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid comment id")
		return
	}

	comment, err := h.Store.CommentByID(c.Request.Context(), cid)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load comment")
		return
	}
	if comment == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "comment not found")
		return
	}
	if comment.AuthorID != caller.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "no permission to delete this comment")
		return
	}

	err = h.Store.GroupedWrite(c.Request.Context(), func(ctx context.Context) error {
		if err := h.Store.DeleteComment(ctx, cid); err != nil {
			return err
		}
		if err := h.Store.RemoveCommentRef(ctx, comment.AuthorID, cid); err != nil {
			return err
		}
		return h.Store.RemovePostCommentRef(ctx, comment.PostID, cid)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete comment")
		return
	}

	util.Success(c, util.Response{"message": "comment deleted", "commentId": cid.Hex()})
}
