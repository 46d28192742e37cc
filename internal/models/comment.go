package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment belongs to one post. The author name is a snapshot taken at
// creation time.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID     primitive.ObjectID `bson:"postId" json:"postId"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"` // epoch millis
}
