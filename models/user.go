package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

type User struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FullName                 string             `bson:"fullName" json:"fullName"`
	Email                    string             `bson:"email" json:"email"`
	Phone                    string             `bson:"phone" json:"phone"`
	Password                 string             `bson:"password" json:"-"`
	Role                     Role               `bson:"role" json:"role"`
	IsVerified               bool               `bson:"isVerified" json:"isVerified"`
	EmailVerificationToken   string             `bson:"emailVerificationToken,omitempty" json:"-"`
	EmailVerificationExpires *time.Time         `bson:"emailVerificationExpires,omitempty" json:"-"`
	ResetPasswordToken       string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires     *time.Time         `bson:"resetPasswordExpires,omitempty" json:"-"`
	CreatedAt                time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the public projection returned on login.
type UserSummary struct {
	ID       primitive.ObjectID `json:"id"`
	FullName string             `json:"fullName"`
	Email    string             `json:"email"`
	Role     Role               `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: u.Role}
}
