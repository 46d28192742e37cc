package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents an application user. Budgets are embedded documents; the
// remaining collections are reference arrays into their own collections.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password" json:"-"`
	Image        string               `bson:"image,omitempty" json:"image,omitempty"`
	Budgets      []Budget             `bson:"budgets" json:"budgets"`
	Transactions []primitive.ObjectID `bson:"transactions" json:"transactions"`
	Posts        []primitive.ObjectID `bson:"posts" json:"posts"`
	LikedPosts   []primitive.ObjectID `bson:"likedPosts" json:"likedPosts"`
	Comments     []primitive.ObjectID `bson:"comments" json:"comments"`
}

// Budget is one month's spending budget, embedded per user.
// At most one entry exists per distinct month key.
type Budget struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MonthYear string             `bson:"monthYear" json:"monthYear"`
	Amount    float64            `bson:"amount" json:"amount"`
}
