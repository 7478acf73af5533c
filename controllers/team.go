package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func GetTeam(svc *services.TeamService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListActive(r.Context())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, list)
	}
}

func GetTeamMember(svc *services.TeamService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", member)
	}
}

func CreateTeamMember(svc *services.TeamService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.TeamInput
		image, closer, err := contentForm(w, r, &in, "isActive")
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		member, err := svc.Create(r.Context(), in, image)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Team member created", member)
	}
}

func UpdateTeamMember(svc *services.TeamService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.TeamInput
		image, closer, err := contentForm(w, r, &in, "isActive")
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		member, err := svc.Update(r.Context(), mux.Vars(r)["id"], in, image)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Team member updated", member)
	}
}

func DeleteTeamMember(svc *services.TeamService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Team member deleted", nil)
	}
}
