package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Purpose string

const (
	PurposeSale Purpose = "SALE"
	PurposeRent Purpose = "RENT"
)

func (p Purpose) Valid() bool { return p == PurposeSale || p == PurposeRent }

type PropertyType string

const (
	PropertyTypeResidential PropertyType = "RESIDENTIAL"
	PropertyTypeCommercial  PropertyType = "COMMERCIAL"
	PropertyTypeLand        PropertyType = "LAND"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeResidential, PropertyTypeCommercial, PropertyTypeLand:
		return true
	}
	return false
}

type AreaUnit string

const (
	AreaUnitAana   AreaUnit = "AANA"
	AreaUnitRopani AreaUnit = "ROPANI"
	AreaUnitKatha  AreaUnit = "KATHA"
	AreaUnitDhur   AreaUnit = "DHUR"
)

func (u AreaUnit) Valid() bool {
	switch u {
	case AreaUnitAana, AreaUnitRopani, AreaUnitKatha, AreaUnitDhur:
		return true
	}
	return false
}

type RoadType string

const (
	RoadTypeBlacktopped RoadType = "BLACKTOPPED"
	RoadTypeGravel      RoadType = "GRAVEL"
	RoadTypeEarth       RoadType = "EARTH"
)

func (r RoadType) Valid() bool {
	switch r {
	case RoadTypeBlacktopped, RoadTypeGravel, RoadTypeEarth:
		return true
	}
	return false
}

type PropertyFace string

const (
	FaceNorth     PropertyFace = "NORTH"
	FaceSouth     PropertyFace = "SOUTH"
	FaceEast      PropertyFace = "EAST"
	FaceWest      PropertyFace = "WEST"
	FaceNorthEast PropertyFace = "NORTH_EAST"
	FaceNorthWest PropertyFace = "NORTH_WEST"
	FaceSouthEast PropertyFace = "SOUTH_EAST"
	FaceSouthWest PropertyFace = "SOUTH_WEST"
)

func (f PropertyFace) Valid() bool {
	switch f {
	case FaceNorth, FaceSouth, FaceEast, FaceWest,
		FaceNorthEast, FaceNorthWest, FaceSouthEast, FaceSouthWest:
		return true
	}
	return false
}

type PropertyStatus string

const (
	StatusAvailable PropertyStatus = "AVAILABLE"
	StatusSold      PropertyStatus = "SOLD"
	StatusReserved  PropertyStatus = "RESERVED"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusReserved:
		return true
	}
	return false
}

type Area struct {
	Value float64  `bson:"value" json:"value"`
	Unit  AreaUnit `bson:"unit" json:"unit"`
}

// PropertyDocuments holds scanned ownership papers.
type PropertyDocuments struct {
	Lalpurja string `bson:"lalpurja,omitempty" json:"lalpurja,omitempty"`
	TraceMap string `bson:"traceMap,omitempty" json:"traceMap,omitempty"`
}

type Property struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title            string             `bson:"title" json:"title"`
	Description      string             `bson:"description" json:"description"`
	Purpose          Purpose            `bson:"purpose" json:"purpose"`
	PropertyType     PropertyType       `bson:"propertyType" json:"propertyType"`
	Price            float64            `bson:"price" json:"price"`
	Negotiable       bool               `bson:"negotiable" json:"negotiable"`
	Area             Area               `bson:"area" json:"area"`
	City             string             `bson:"city" json:"city"`
	AreaName         string             `bson:"areaName" json:"areaName"`
	Municipality     string             `bson:"municipality" json:"municipality"`
	WardNo           int                `bson:"wardNo" json:"wardNo"`
	RoadType         RoadType           `bson:"roadType,omitempty" json:"roadType,omitempty"`
	RoadAccess       *float64           `bson:"roadAccess,omitempty" json:"roadAccess,omitempty"`
	RingRoadDistance *float64           `bson:"ringRoadDistance,omitempty" json:"ringRoadDistance,omitempty"`
	PropertyFace     PropertyFace       `bson:"propertyFace,omitempty" json:"propertyFace,omitempty"`
	Images           []string           `bson:"images" json:"images"`
	Documents        *PropertyDocuments `bson:"documents,omitempty" json:"documents,omitempty"`
	Status           PropertyStatus     `bson:"status" json:"status"`
	DatePosted       time.Time          `bson:"datePosted" json:"datePosted"`
	IsVerified       bool               `bson:"isVerified" json:"isVerified"`
	Slug             string             `bson:"slug" json:"slug"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertyUpdate is the partial update accepted by the update endpoint.
// Nil fields are left untouched.
type PropertyUpdate struct {
	Title            *string
	Description      *string
	Purpose          *Purpose
	PropertyType     *PropertyType
	Price            *float64
	Negotiable       *bool
	Area             *Area
	City             *string
	AreaName         *string
	Municipality     *string
	WardNo           *int
	RoadType         *RoadType
	RoadAccess       *float64
	RingRoadDistance *float64
	PropertyFace     *PropertyFace
	Documents        *PropertyDocuments
	Status           *PropertyStatus
	Slug             *string
}

// Apply merges u onto p.
func (u PropertyUpdate) Apply(p *Property) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Purpose != nil {
		p.Purpose = *u.Purpose
	}
	if u.PropertyType != nil {
		p.PropertyType = *u.PropertyType
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Negotiable != nil {
		p.Negotiable = *u.Negotiable
	}
	if u.Area != nil {
		p.Area = *u.Area
	}
	if u.City != nil {
		p.City = *u.City
	}
	if u.AreaName != nil {
		p.AreaName = *u.AreaName
	}
	if u.Municipality != nil {
		p.Municipality = *u.Municipality
	}
	if u.WardNo != nil {
		p.WardNo = *u.WardNo
	}
	if u.RoadType != nil {
		p.RoadType = *u.RoadType
	}
	if u.RoadAccess != nil {
		p.RoadAccess = u.RoadAccess
	}
	if u.RingRoadDistance != nil {
		p.RingRoadDistance = u.RingRoadDistance
	}
	if u.PropertyFace != nil {
		p.PropertyFace = *u.PropertyFace
	}
	if u.Documents != nil {
		p.Documents = u.Documents
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Slug != nil {
		p.Slug = *u.Slug
	}
}
