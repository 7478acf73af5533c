package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Name       string              `bson:"name" json:"name"`
	Role       string              `bson:"role,omitempty" json:"role,omitempty"`
	Message    string              `bson:"message" json:"message"`
	Rating     int                 `bson:"rating" json:"rating"`
	Image      string              `bson:"image,omitempty" json:"image,omitempty"`
	IsActive   bool                `bson:"isActive" json:"isActive"`
	PropertyID *primitive.ObjectID `bson:"property,omitempty" json:"property,omitempty"`
	UserID     *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type Team struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Title     string             `bson:"title" json:"title"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Content     string             `bson:"content" json:"content"`
	Author      string             `bson:"author" json:"author"`
	Image       string             `bson:"image" json:"image"`
	IsPublished bool               `bson:"isPublished" json:"isPublished"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Location struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Province     string             `bson:"province" json:"province"`
	District     string             `bson:"district" json:"district"`
	Municipality string             `bson:"municipality" json:"municipality"`
	Ward         int                `bson:"ward" json:"ward"`
	Street       string             `bson:"street,omitempty" json:"street,omitempty"`
}
