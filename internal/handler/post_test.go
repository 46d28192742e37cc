package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage/storagetest"
)

func seedPost(t *testing.T, store *storagetest.Fake, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:       primitive.NewObjectID(),
		Writer:   models.Writer{UID: author.ID, Name: author.Name, Image: author.Image},
		Date:     time.Now(),
		Category: "saving",
		Title:    "march savings report",
		Content:  "kept under budget this month",
		Like:     []primitive.ObjectID{},
		Comments: []primitive.ObjectID{},
	}
	require.NoError(t, store.InsertPost(context.Background(), post))
	require.NoError(t, store.AddPostRef(context.Background(), author.ID, post.ID))
	return post
}

func TestPostCreate(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/community", tokenFor(t, u), map[string]string{
		"category": "saving",
		"title":    "march savings report",
		"content":  "kept under budget this month",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.Post
	dataField(t, decodeEnvelope(t, w), "post", &post)
	assert.Equal(t, u.ID, post.Writer.UID)
	assert.Equal(t, "alice", post.Writer.Name)
	assert.Zero(t, post.Hit)

	author, err := store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Contains(t, author.Posts, post.ID)
}

func TestPostGetCountsHit(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	post := seedPost(t, store, u)

	for want := int64(1); want <= 3; want++ {
		w := doJSON(t, r, http.MethodGet, "/api/community/"+post.ID.Hex(), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got models.Post
		dataField(t, decodeEnvelope(t, w), "post", &got)
		assert.Equal(t, want, got.Hit)
	}
}

func TestPostListByWriter(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	seedPost(t, store, alice)

	w := doJSON(t, r, http.MethodGet, "/api/community/user/"+alice.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []models.Post
	dataField(t, decodeEnvelope(t, w), "posts", &posts)
	assert.Len(t, posts, 1)

	// a writer with no posts is a 404, not an empty list
	w = doJSON(t, r, http.MethodGet, "/api/community/user/"+bob.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostUpdateOwnerOnly(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	post := seedPost(t, store, alice)

	body := map[string]string{"category": "free", "title": "edited", "content": "edited body"}

	w := doJSON(t, r, http.MethodPatch, "/api/community/"+post.ID.Hex(), tokenFor(t, bob), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/community/"+post.ID.Hex(), tokenFor(t, alice), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.PostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Title)
}

func TestPostDelete(t *testing.T) {
	r, store := newTestEnv(t)
	u := seedUser(t, store, "alice", "alice@example.com")
	post := seedPost(t, store, u)

	w := doJSON(t, r, http.MethodDelete, "/api/community/"+post.ID.Hex(), tokenFor(t, u), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := store.PostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	author, err := store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotContains(t, author.Posts, post.ID)
}

func TestPostLikeToggle(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	post := seedPost(t, store, alice)
	token := tokenFor(t, bob)

	// first toggle: like
	w := doJSON(t, r, http.MethodPatch, "/api/community/"+post.ID.Hex()+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var liked bool
	dataField(t, decodeEnvelope(t, w), "liked", &liked)
	assert.True(t, liked)

	stored, err := store.PostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Like, bob.ID)

	liker, err := store.UserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Contains(t, liker.LikedPosts, post.ID)

	// second toggle: unlike, both sides move back
	w = doJSON(t, r, http.MethodPatch, "/api/community/"+post.ID.Hex()+"/like", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	dataField(t, decodeEnvelope(t, w), "liked", &liked)
	assert.False(t, liked)

	stored, err = store.PostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Like, bob.ID)

	liker, err = store.UserByID(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.NotContains(t, liker.LikedPosts, post.ID)
}

func TestPostLikeRollsBackAsOneUnit(t *testing.T) {
	r, store := newTestEnv(t)
	alice := seedUser(t, store, "alice", "alice@example.com")
	bob := seedUser(t, store, "bob", "bob@example.com")
	post := seedPost(t, store, alice)

	store.FailOn["AddLikedPostRef"] = errors.New("write conflict")

	w := doJSON(t, r, http.MethodPatch, "/api/community/"+post.ID.Hex()+"/like", tokenFor(t, bob), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	stored, err := store.PostByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.Like, bob.ID, "the like on the post must roll back too")
}
