package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

// GetFAQs lists active entries; ?all=true includes inactive ones.
func GetFAQs(svc *services.FAQService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), r.URL.Query().Get("all") != "true")
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, list)
	}
}

func GetFAQ(svc *services.FAQService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", f)
	}
}

func CreateFAQ(svc *services.FAQService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.FAQInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		f, err := svc.Create(r.Context(), in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "FAQ created", f)
	}
}

func UpdateFAQ(svc *services.FAQService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.FAQInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		f, err := svc.Update(r.Context(), mux.Vars(r)["id"], in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "FAQ updated", f)
	}
}

func DeleteFAQ(svc *services.FAQService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "FAQ deleted", nil)
	}
}
