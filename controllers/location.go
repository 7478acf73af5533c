package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/store"
	"github.com/dcode-github/gharbari/backend/utils"
)

func GetLocations(svc *services.LocationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := svc.List(r.Context(), store.LocationFilter{
			Province:     q.Get("province"),
			District:     q.Get("district"),
			Municipality: q.Get("municipality"),
		})
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, list)
	}
}

func CreateLocation(svc *services.LocationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l models.Location
		if err := decodeJSON(w, r, &l); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		created, err := svc.Create(r.Context(), l)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Location created", created)
	}
}

func DeleteLocation(svc *services.LocationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Location deleted", nil)
	}
}
