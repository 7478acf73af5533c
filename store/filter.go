package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildListingFilter translates a ListingQuery into a Mongo filter. Exact
// filters, the price range and the search disjunction are ANDed together.
func BuildListingFilter(q ListingQuery) bson.M {
	filter := bson.M{}

	if q.City != "" {
		filter["city"] = q.City
	}
	if q.Municipality != "" {
		filter["municipality"] = q.Municipality
	}
	if q.WardNo != nil {
		filter["wardNo"] = *q.WardNo
	}
	if q.Purpose != "" {
		filter["purpose"] = q.Purpose
	}
	if q.PropertyType != "" {
		filter["propertyType"] = q.PropertyType
	}
	if q.PropertyFace != "" {
		filter["propertyFace"] = q.PropertyFace
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.IsVerified != nil {
		filter["isVerified"] = *q.IsVerified
	}

	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}

	if q.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": rx}},
			bson.M{"description": bson.M{"$regex": rx}},
			bson.M{"areaName": bson.M{"$regex": rx}},
		}
	}

	return filter
}

// BuildListingSort orders by the requested field with _id as tie-break.
func BuildListingSort(q ListingQuery) bson.D {
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "datePosted"
	}
	if sortBy == "_id" {
		return bson.D{{Key: "_id", Value: dir}}
	}
	return bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}
}
