// Package storagetest provides an in-memory storage.Ledger for tests. A
// grouped write runs against a staged copy of the state and commits only on
// success, mirroring the visibility guarantees of the real store.
package storagetest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/models"
	"github.com/Yoonyesol/Web-Social-Account-Book-backend/internal/storage"
)

// Fake is an in-memory Ledger. Inject errors per method name through
// FailOn to simulate store failures mid-operation.
type Fake struct {
	mu     sync.Mutex
	state  *state
	staged *state

	// FailOn maps a method name (e.g. "RemoveTransactionRef") to the error
	// it should return instead of applying.
	FailOn map[string]error
}

var _ storage.Ledger = (*Fake)(nil)

type state struct {
	users        map[primitive.ObjectID]*models.User
	transactions map[primitive.ObjectID]*models.Transaction
	posts        map[primitive.ObjectID]*models.Post
	comments     map[primitive.ObjectID]*models.Comment
}

func newState() *state {
	return &state{
		users:        make(map[primitive.ObjectID]*models.User),
		transactions: make(map[primitive.ObjectID]*models.Transaction),
		posts:        make(map[primitive.ObjectID]*models.Post),
		comments:     make(map[primitive.ObjectID]*models.Comment),
	}
}

func New() *Fake {
	return &Fake{
		state:  newState(),
		FailOn: make(map[string]error),
	}
}

func (f *Fake) fail(method string) error {
	return f.FailOn[method]
}

// current returns the staged state inside a grouped write, the committed
// state otherwise.
func (f *Fake) current() *state {
	if f.staged != nil {
		return f.staged
	}
	return f.state
}

// GroupedWrite applies fn against a staged copy and commits it only when fn
// succeeds, so a failing sub-write leaves the committed state untouched.
func (f *Fake) GroupedWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	if err := f.fail("GroupedWrite"); err != nil {
		f.mu.Unlock()
		return err
	}
	f.staged = f.state.clone()
	f.mu.Unlock()

	err := fn(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.staged = nil
		return err
	}
	f.state = f.staged
	f.staged = nil
	return nil
}

// ---- deep copies ----

func copyIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Budgets = make([]models.Budget, len(u.Budgets))
	copy(cp.Budgets, u.Budgets)
	cp.Transactions = copyIDs(u.Transactions)
	cp.Posts = copyIDs(u.Posts)
	cp.LikedPosts = copyIDs(u.LikedPosts)
	cp.Comments = copyIDs(u.Comments)
	return &cp
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	return &cp
}

func copyPost(p *models.Post) *models.Post {
	cp := *p
	cp.Like = copyIDs(p.Like)
	cp.Comments = copyIDs(p.Comments)
	return &cp
}

func copyComment(cm *models.Comment) *models.Comment {
	cp := *cm
	return &cp
}

func (s *state) clone() *state {
	cl := newState()
	for id, u := range s.users {
		cl.users[id] = copyUser(u)
	}
	for id, t := range s.transactions {
		cl.transactions[id] = copyTransaction(t)
	}
	for id, p := range s.posts {
		cl.posts[id] = copyPost(p)
	}
	for id, cm := range s.comments {
		cl.comments[id] = copyComment(cm)
	}
	return cl
}

// ---- users ----

func (f *Fake) InsertUser(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("InsertUser"); err != nil {
		return err
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.current().users[u.ID] = copyUser(u)
	return nil
}

func (f *Fake) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UserByID"); err != nil {
		return nil, err
	}
	u, ok := f.current().users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (f *Fake) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range f.current().users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (f *Fake) Users(ctx context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Users"); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(f.current().users))
	for _, u := range f.current().users {
		out = append(out, *copyUser(u))
	}
	return out, nil
}

func (f *Fake) SetUserBudgets(ctx context.Context, uid primitive.ObjectID, budgets []models.Budget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SetUserBudgets"); err != nil {
		return err
	}
	u, ok := f.current().users[uid]
	if !ok {
		return nil
	}
	u.Budgets = make([]models.Budget, len(budgets))
	copy(u.Budgets, budgets)
	return nil
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (f *Fake) userRef(method string, uid primitive.ObjectID, apply func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(method); err != nil {
		return err
	}
	if u, ok := f.current().users[uid]; ok {
		apply(u)
	}
	return nil
}

func (f *Fake) AddTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error {
	return f.userRef("AddTransactionRef", uid, func(u *models.User) {
		u.Transactions = append(u.Transactions, tid)
	})
}

func (f *Fake) RemoveTransactionRef(ctx context.Context, uid, tid primitive.ObjectID) error {
	return f.userRef("RemoveTransactionRef", uid, func(u *models.User) {
		u.Transactions = removeID(u.Transactions, tid)
	})
}

func (f *Fake) AddPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return f.userRef("AddPostRef", uid, func(u *models.User) {
		u.Posts = append(u.Posts, pid)
	})
}

func (f *Fake) RemovePostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return f.userRef("RemovePostRef", uid, func(u *models.User) {
		u.Posts = removeID(u.Posts, pid)
	})
}

func (f *Fake) AddLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return f.userRef("AddLikedPostRef", uid, func(u *models.User) {
		u.LikedPosts = append(u.LikedPosts, pid)
	})
}

func (f *Fake) RemoveLikedPostRef(ctx context.Context, uid, pid primitive.ObjectID) error {
	return f.userRef("RemoveLikedPostRef", uid, func(u *models.User) {
		u.LikedPosts = removeID(u.LikedPosts, pid)
	})
}

func (f *Fake) AddCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error {
	return f.userRef("AddCommentRef", uid, func(u *models.User) {
		u.Comments = append(u.Comments, cid)
	})
}

func (f *Fake) RemoveCommentRef(ctx context.Context, uid, cid primitive.ObjectID) error {
	return f.userRef("RemoveCommentRef", uid, func(u *models.User) {
		u.Comments = removeID(u.Comments, cid)
	})
}

// ---- transactions ----

func (f *Fake) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("InsertTransaction"); err != nil {
		return err
	}
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	f.current().transactions[t.ID] = copyTransaction(t)
	return nil
}

func (f *Fake) TransactionByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("TransactionByID"); err != nil {
		return nil, err
	}
	t, ok := f.current().transactions[id]
	if !ok {
		return nil, nil
	}
	return copyTransaction(t), nil
}

func (f *Fake) TransactionsByUser(ctx context.Context, uid primitive.ObjectID) ([]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("TransactionsByUser"); err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, t := range f.current().transactions {
		if t.UID == uid {
			out = append(out, *copyTransaction(t))
		}
	}
	return out, nil
}

func (f *Fake) TransactionsByUsers(ctx context.Context, uids []primitive.ObjectID) (map[primitive.ObjectID][]models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("TransactionsByUsers"); err != nil {
		return nil, err
	}
	wanted := make(map[primitive.ObjectID]bool, len(uids))
	for _, id := range uids {
		wanted[id] = true
	}
	out := make(map[primitive.ObjectID][]models.Transaction)
	for _, t := range f.current().transactions {
		if wanted[t.UID] {
			out[t.UID] = append(out[t.UID], *copyTransaction(t))
		}
	}
	return out, nil
}

func (f *Fake) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdateTransaction"); err != nil {
		return err
	}
	if _, ok := f.current().transactions[t.ID]; ok {
		f.current().transactions[t.ID] = copyTransaction(t)
	}
	return nil
}

func (f *Fake) DeleteTransaction(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteTransaction"); err != nil {
		return err
	}
	delete(f.current().transactions, id)
	return nil
}

// ---- posts ----

func (f *Fake) InsertPost(ctx context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("InsertPost"); err != nil {
		return err
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.current().posts[p.ID] = copyPost(p)
	return nil
}

func (f *Fake) PostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PostByID"); err != nil {
		return nil, err
	}
	p, ok := f.current().posts[id]
	if !ok {
		return nil, nil
	}
	return copyPost(p), nil
}

func (f *Fake) PostByIDAndHit(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PostByIDAndHit"); err != nil {
		return nil, err
	}
	p, ok := f.current().posts[id]
	if !ok {
		return nil, nil
	}
	p.Hit++
	return copyPost(p), nil
}

func (f *Fake) Posts(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("Posts"); err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(f.current().posts))
	for _, p := range f.current().posts {
		out = append(out, *copyPost(p))
	}
	return out, nil
}

func (f *Fake) PostsByWriter(ctx context.Context, uid primitive.ObjectID) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PostsByWriter"); err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range f.current().posts {
		if p.Writer.UID == uid {
			out = append(out, *copyPost(p))
		}
	}
	return out, nil
}

func (f *Fake) UpdatePost(ctx context.Context, p *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdatePost"); err != nil {
		return err
	}
	if _, ok := f.current().posts[p.ID]; ok {
		f.current().posts[p.ID] = copyPost(p)
	}
	return nil
}

func (f *Fake) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeletePost"); err != nil {
		return err
	}
	delete(f.current().posts, id)
	return nil
}

func (f *Fake) postRef(method string, pid primitive.ObjectID, apply func(p *models.Post)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail(method); err != nil {
		return err
	}
	if p, ok := f.current().posts[pid]; ok {
		apply(p)
	}
	return nil
}

func (f *Fake) AddPostLike(ctx context.Context, pid, uid primitive.ObjectID) error {
	return f.postRef("AddPostLike", pid, func(p *models.Post) {
		p.Like = append(p.Like, uid)
	})
}

func (f *Fake) RemovePostLike(ctx context.Context, pid, uid primitive.ObjectID) error {
	return f.postRef("RemovePostLike", pid, func(p *models.Post) {
		p.Like = removeID(p.Like, uid)
	})
}

func (f *Fake) AddPostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error {
	return f.postRef("AddPostCommentRef", pid, func(p *models.Post) {
		p.Comments = append(p.Comments, cid)
	})
}

func (f *Fake) RemovePostCommentRef(ctx context.Context, pid, cid primitive.ObjectID) error {
	return f.postRef("RemovePostCommentRef", pid, func(p *models.Post) {
		p.Comments = removeID(p.Comments, cid)
	})
}

// ---- comments ----

func (f *Fake) InsertComment(ctx context.Context, cm *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("InsertComment"); err != nil {
		return err
	}
	if cm.ID.IsZero() {
		cm.ID = primitive.NewObjectID()
	}
	f.current().comments[cm.ID] = copyComment(cm)
	return nil
}

func (f *Fake) CommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CommentByID"); err != nil {
		return nil, err
	}
	cm, ok := f.current().comments[id]
	if !ok {
		return nil, nil
	}
	return copyComment(cm), nil
}

func (f *Fake) CommentsByPost(ctx context.Context, pid primitive.ObjectID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CommentsByPost"); err != nil {
		return nil, err
	}
	var out []models.Comment
	for _, cm := range f.current().comments {
		if cm.PostID == pid {
			out = append(out, *copyComment(cm))
		}
	}
	return out, nil
}

func (f *Fake) CommentsByAuthor(ctx context.Context, uid primitive.ObjectID) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CommentsByAuthor"); err != nil {
		return nil, err
	}
	var out []models.Comment
	for _, cm := range f.current().comments {
		if cm.AuthorID == uid {
			out = append(out, *copyComment(cm))
		}
	}
	return out, nil
}

func (f *Fake) UpdateComment(ctx context.Context, cm *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdateComment"); err != nil {
		return err
	}
	if _, ok := f.current().comments[cm.ID]; ok {
		f.current().comments[cm.ID] = copyComment(cm)
	}
	return nil
}

func (f *Fake) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteComment"); err != nil {
		return err
	}
	delete(f.current().comments, id)
	return nil
}
