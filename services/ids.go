// Package services holds the business logic between the HTTP controllers
// and the document store.
package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
)

func parseID(id, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.Validationf("Invalid %s id", what)
	}
	return oid, nil
}
