package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
	postsCollection        = "posts"
	commentsCollection     = "comments"
)

// Mongo implements Ledger on a MongoDB database.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Ledger = (*Mongo)(nil)

// NewMongo creates a Mongo store and ensures the unique email index.
func NewMongo(ctx context.Context, client *mongo.Client, dbName string) (*Mongo, error) {
	m := &Mongo{
		client: client,
		db:     client.Database(dbName),
	}

	_, err := m.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create email index: %w", err)
	}

	return m, nil
}

func (m *Mongo) users() *mongo.Collection        { return m.db.Collection(usersCollection) }
func (m *Mongo) transactions() *mongo.Collection { return m.db.Collection(transactionsCollection) }
func (m *Mongo) posts() *mongo.Collection        { return m.db.Collection(postsCollection) }
func (m *Mongo) comments() *mongo.Collection     { return m.db.Collection(commentsCollection) }

// GroupedWrite runs fn inside a session transaction. All writes issued with
// the context fn receives become visible together or not at all.
func (m *Mongo) GroupedWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return fmt.Errorf("grouped write: %w", err)
	}
	return nil
}

// ---- users ----

func (m *Mongo) InsertUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := m.users().InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (m *Mongo) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id})
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *Mongo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := m.users().FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (m *Mongo) Users(ctx context.Context) ([]models.User, error) {
	cur, err := m.users().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (m *Mongo) SetUserBudgets(ctx context.Context, uid primitive.ObjectID, budgets []models.Budget) error {
	_, err := m.users().UpdateByID(ctx, uid, bson.M{"$set": bson.M{"budgets": budgets}})
	if err != nil {
		return fmt.Errorf("set budgets: %w", err)
	}
	return nil
}

func (m *Mongo) pushUserRef(ctx context.Context, uid primitive.ObjectID, field string, id primitive.ObjectID) error {
	_, err := m.users().UpdateByID(ctx, uid, bson.M{"$push": bson.M{field: id}})
	if err != nil {
		return fmt.Errorf("push user %s ref: %w", field, err)
	}
	return nil
}

func (m *Mongo) pullUserRef(ctx context.Context, uid primitive.ObjectID, field string, id primitive.ObjectID) error {
	_, err := m.users().UpdateByID(ctx, uid, bson.M{"$pull": bson.M{field: id}})
	if err != nil {
		return fmt.Errorf("pull user %s ref: %w", field, err)
	}
	return nil
}

func (m *Mongo) AddTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error {
	return m.pushUserRef(ctx, uid, "transactions", tid)
}

func (m *Mongo) RemoveTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error {
	return m.pullUserRef(ctx, uid, "transactions", tid)
}

func (m *Mongo) AddPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return m.pushUserRef(ctx, uid, "posts", pid)
}

func (m *Mongo) RemovePostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return m.pullUserRef(ctx, uid, "posts", pid)
}

func (m *Mongo) AddLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return m.pushUserRef(ctx, uid, "likedPosts", pid)
}

func (m *Mongo) RemoveLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return m.pullUserRef(ctx, uid, "likedPosts", pid)
}

func (m *Mongo) AddCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error {
	return m.pushUserRef(ctx, uid, "comments", cid)
}

func (m *Mongo) RemoveCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error {
	return m.pullUserRef(ctx, uid, "comments", cid)
}

// ---- transactions ----

func (m *Mongo) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if _, err := m.transactions().InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (m *Mongo) TransactionByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var t models.Transaction
	err := m.transactions().FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return &t, nil
}

func (m *Mongo) TransactionsByUser(ctx context.Context, uid primitive.ObjectID) ([]models.Transaction, error) {
	cur, err := m.transactions().Find(ctx, bson.M{"uid": uid})
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	var txs []models.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return txs, nil
}

func (m *Mongo) TransactionsByUsers(ctx context.Context, uids []primitive.ObjectID) (map[primitive.ObjectID][]models.Transaction, error) {
	cur, err := m.transactions().Find(ctx, bson.M{"uid": bson.M{"$in": uids}})
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}

	var txs []models.Transaction
	if err := cur.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	byUser := make(map[primitive.ObjectID][]models.Transaction, len(uids))
	for _, t := range txs {
		byUser[t.UID] = append(byUser[t.UID], t)
	}
	return byUser, nil
}

func (m *Mongo) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	_, err := m.transactions().ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (m *Mongo) DeleteTransaction(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.transactions().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// ---- posts ----

func (m *Mongo) InsertPost(ctx context.Context, p *models.Post) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := m.posts().InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (m *Mongo) PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := m.posts().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// PostByIDAndHit atomically increments the hit counter and returns the
// updated post, so concurrent readers never lose an increment.
func (m *Mongo) PostByIDAndHit(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := m.posts().FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"hit": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post and hit: %w", err)
	}
	return &p, nil
}

func (m *Mongo) Posts(ctx context.Context) ([]models.Post, error) {
	return m.findPosts(ctx, bson.M{})
}

func (m *Mongo) PostsByWriter(ctx context.Context, uid primitive.ObjectID) ([]models.Post, error) {
	return m.findPosts(ctx, bson.M{"writer.uid": uid})
}

func (m *Mongo) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := m.posts().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (m *Mongo) UpdatePost(ctx context.Context, p *models.Post) error {
	_, err := m.posts().ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (m *Mongo) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.posts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (m *Mongo) AddPostLike(ctx context.Context, pid, uid primitive.ObjectID) error {
	_, err := m.posts().UpdateByID(ctx, pid, bson.M{"$push": bson.M{"like": uid}})
	if err != nil {
		return fmt.Errorf("add post like: %w", err)
	}
	return nil
}

func (m *Mongo) RemovePostLike(ctx context.Context, pid, uid primitive.ObjectID) error {
	_, err := m.posts().UpdateByID(ctx, pid, bson.M{"$pull": bson.M{"like": uid}})
	if err != nil {
		return fmt.Errorf("remove post like: %w", err)
	}
	return nil
}

func (m *Mongo) AddPostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error {
	_, err := m.posts().UpdateByID(ctx, pid, bson.M{"$push": bson.M{"comments": cid}})
	if err != nil {
		return fmt.Errorf("add post comment ref: %w", err)
	}
	return nil
}

func (m *Mongo) RemovePostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error {
	_, err := m.posts().UpdateByID(ctx, pid, bson.M{"$pull": bson.M{"comments": cid}})
	if err != nil {
		return fmt.Errorf("remove post comment ref: %w", err)
	}
	return nil
}

// ---- comments ----

func (m *Mongo) InsertComment(ctx context.Context, cm *models.Comment) error {
	if cm.ID.IsZero() {
		cm.ID = primitive.NewObjectID()
	}
	if _, err := m.comments().InsertOne(ctx, cm); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (m *Mongo) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var cm models.Comment
	err := m.comments().FindOne(ctx, bson.M{"_id": id}).Decode(&cm)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &cm, nil
}

func (m *Mongo) CommentsByPost(ctx context.Context, pid primitive.ObjectID) ([]models.Comment, error) {
	return m.findComments(ctx, bson.M{"postId": pid})
}

func (m *Mongo) CommentsByAuthor(ctx context.Context, uid primitive.ObjectID) ([]models.Comment, error) {
	return m.findComments(ctx, bson.M{"authorId": uid})
}

func (m *Mongo) findComments(ctx context.Context, filter bson.M) ([]models.Comment, error) {
	cur, err := m.comments().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (m *Mongo) UpdateComment(ctx context.Context, cm *models.Comment) error {
	_, err := m.comments().ReplaceOne(ctx, bson.M{"_id": cm.ID}, cm)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

func (m *Mongo) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.comments().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
