package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/middleware"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/utils"
)

const maxJSONBody = 1 << 20

type pageResponse struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	utils.WriteJSON(w, status, models.APIResponse{Success: true, Message: message, Data: data})
}

func respondList[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	utils.WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Count: &n, Data: items})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("Request body is required")
		}
		return errs.Validationf("Invalid request payload: %v", err)
	}
	return nil
}

func currentUser(r *http.Request) (string, error) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return "", errs.Unauthorized("Not authenticated")
	}
	return id, nil
}
