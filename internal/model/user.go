package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in MongoDB. Credential fields are managed
// by the auth service; this backend only reads profile data and maintains
// last_seen.
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName   string             `json:"fullName" bson:"full_name"`
	Email      string             `json:"email" bson:"email"`
	ProfilePic string             `json:"profilePic" bson:"profile_pic"`
	LastSeen   *time.Time         `json:"lastSeen" bson:"last_seen"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}

// SidebarUser is the per-contact entry returned by the sidebar listing:
// profile data from the users collection merged with live presence.
type SidebarUser struct {
	ID         string     `json:"id"`
	FullName   string     `json:"fullName"`
	ProfilePic string     `json:"profilePic"`
	LastSeen   *time.Time `json:"lastSeen"`
	Online     bool       `json:"online"`
}
