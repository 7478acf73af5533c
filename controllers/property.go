package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func GetAllProperties(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := services.ParseListingQuery(r.URL.Query())
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		page, err := svc.Search(r.Context(), req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, pageResponse{Success: true, Data: page.Data, Pagination: page.Pagination})
	}
}

func GetPropertyByID(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", p)
	}
}

func GetPropertyBySlug(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetBySlug(r.Context(), mux.Vars(r)["slug"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", p)
	}
}

func CreateProperty(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, closer, err := propertyRequest(w, r)
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if len(req.RemovedImages) > 0 {
			utils.WriteError(w, r, errs.Validation("removedImages is only accepted on update"))
			return
		}
		p, err := svc.Create(r.Context(), req.Fields, req.Files)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Property created", p)
	}
}

func UpdateProperty(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, closer, err := propertyRequest(w, r)
		defer closer()
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		p, err := svc.Update(r.Context(), mux.Vars(r)["id"], req)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Property updated", p)
	}
}

func propertyRequest(w http.ResponseWriter, r *http.Request) (services.PropertyUpdateRequest, func(), error) {
	isJSON, err := parseForm(w, r)
	if err != nil {
		return services.PropertyUpdateRequest{}, func() {}, err
	}
	if isJSON {
		return services.PropertyUpdateRequest{}, func() {}, errs.Validation("Property payloads must be multipart/form-data")
	}
	return propertyUpdateRequest(r)
}

func DeleteProperty(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Property deleted", nil)
	}
}

type statusRequest struct {
	Status models.PropertyStatus `json:"status"`
}

func UpdatePropertyStatus(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		p, err := svc.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Property status updated", p)
	}
}

func VerifyProperty(svc *services.PropertyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Verify(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Property verified", p)
	}
}
