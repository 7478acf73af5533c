package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func AddFavorite(svc *services.FavoriteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		fav, err := svc.Add(r.Context(), userID, mux.Vars(r)["propertyId"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		slog.DebugContext(r.Context(), "Favorite added", slog.String("user", userID), slog.String("property", fav.PropertyID.Hex()))
		respond(w, http.StatusCreated, "Added to favorites", fav)
	}
}

func RemoveFavorite(svc *services.FavoriteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.Remove(r.Context(), userID, mux.Vars(r)["propertyId"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Removed from favorites", nil)
	}
}

func GetFavorites(svc *services.FavoriteService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		favs, err := svc.List(r.Context(), userID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, favs)
	}
}
