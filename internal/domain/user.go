package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`    // Unique
	PasswordHash      string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	ProfilePictureKey string             `bson:"profilePictureKey,omitempty" json:"-"` // Object key in S3, resolved to a URL on read
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasProfilePicture reports whether a picture was uploaded and confirmed.
func (u *User) HasProfilePicture() bool {
	return u.ProfilePictureKey != ""
}
