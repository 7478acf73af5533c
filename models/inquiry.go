package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "NEW"
	InquiryContacted InquiryStatus = "CONTACTED"
	InquiryClosed    InquiryStatus = "CLOSED"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryContacted, InquiryClosed:
		return true
	}
	return false
}

type Inquiry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PropertyID primitive.ObjectID `bson:"property" json:"property"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Status     InquiryStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertySummary is the slice of a listing embedded in inquiry views.
type PropertySummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Price        float64            `bson:"price" json:"price"`
	City         string             `bson:"city" json:"city"`
	Municipality string             `bson:"municipality" json:"municipality"`
}

// InquiryView is an inquiry joined with its property summary.
type InquiryView struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Property  *PropertySummary   `bson:"property" json:"property"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Status    InquiryStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
