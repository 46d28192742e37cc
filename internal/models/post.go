package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Writer is the denormalized author snapshot stored on a post. It is
// captured at creation time and does not track later profile edits.
type Writer struct {
	UID   primitive.ObjectID `bson:"uid" json:"uid"`
	Name  string             `bson:"name" json:"name"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Post is a community board post.
type Post struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Writer   Writer               `bson:"writer" json:"writer"`
	Date     time.Time            `bson:"date" json:"date"`
	Category string               `bson:"category" json:"category"`
	Title    string               `bson:"title" json:"title"`
	Content  string               `bson:"content" json:"content"`
	Hit      int64                `bson:"hit" json:"hit"`
	Like     []primitive.ObjectID `bson:"like" json:"like"`
	Comments []primitive.ObjectID `bson:"comments" json:"comments"`
}

// Liked reports whether the given user already likes the post.
func (p *Post) Liked(uid primitive.ObjectID) bool {
	for _, id := range p.Like {
		if id == uid {
			return true
		}
	}
	return false
}
