package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func GetReviews(svc *services.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListActive(r.Context())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, list)
	}
}

func GetReview(svc *services.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rev, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", rev)
	}
}

func CreateReview(svc *services.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ReviewInput
		image, closer, err := contentForm(w, r, &in, "isActive")
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		rev, err := svc.Create(r.Context(), in, image)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Review created", rev)
	}
}

func UpdateReview(svc *services.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ReviewInput
		image, closer, err := contentForm(w, r, &in, "isActive")
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		rev, err := svc.Update(r.Context(), mux.Vars(r)["id"], in, image)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Review updated", rev)
	}
}

func DeleteReview(svc *services.ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Review deleted", nil)
	}
}
