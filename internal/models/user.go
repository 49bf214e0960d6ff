package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences holds per-user app preferences.
type Preferences struct {
	Theme       string `bson:"theme" json:"theme"`
	Language    string `bson:"language" json:"language"`
	DefaultView string `bson:"defaultView" json:"defaultView"`
}

// Stats tracks usage counters shown on the profile page.
type Stats struct {
	TotalEntries  int       `bson:"totalEntries" json:"totalEntries"`
	TotalJournals int       `bson:"totalJournals" json:"totalJournals"`
	Streak        int       `bson:"streak" json:"streak"`
	JoinedAt      time.Time `bson:"joinedAt" json:"joinedAt"`
	IsDeleted     bool      `bson:"isDeleted" json:"isDeleted"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	FullName string `bson:"fullName" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON
	Avatar   string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`

	IsVerified bool   `bson:"isVerified" json:"isVerified"`
	Role       string `bson:"role" json:"role"`

	// Security tokens are never serialized to clients
	VerifyToken                   string     `bson:"verifyToken,omitempty" json:"-"`
	VerifyTokenExpiryDate         *time.Time `bson:"verifyTokenExpiryDate,omitempty" json:"-"`
	ForgotPasswordToken           string     `bson:"forgotPasswordToken,omitempty" json:"-"`
	ForgotPasswordTokenExpiryDate *time.Time `bson:"forgotPasswordTokenExpiryDate,omitempty" json:"-"`

	Preferences Preferences `bson:"preferences" json:"preferences"`
	Stats       Stats       `bson:"stats" json:"stats"`
}

// DefaultPreferences mirrors the schema defaults applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "auto", Language: "en", DefaultView: "list"}
}
