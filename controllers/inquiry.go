package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func CreateInquiry(svc *services.InquiryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.InquiryInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		inq, err := svc.Create(r.Context(), in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Inquiry submitted", inq)
	}
}

func GetInquiries(svc *services.InquiryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := pageParams(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		list, err := svc.List(r.Context(), page, limit)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respondList(w, list)
	}
}

func GetInquiry(svc *services.InquiryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inq, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", inq)
	}
}

func UpdateInquiry(svc *services.InquiryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd services.InquiryUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		inq, err := svc.Update(r.Context(), mux.Vars(r)["id"], upd)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Inquiry updated", inq)
	}
}

func DeleteInquiry(svc *services.InquiryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Inquiry deleted", nil)
	}
}

// pageParams reads page and limit for the simple paginated lists. Out-of-range values are
// clamped by the services.
func pageParams(r *http.Request) (page, limit int, err error) {
	q := r.URL.Query()
	page, limit = 1, 10
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, errs.Validation("page must be an integer")
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, errs.Validation("limit must be an integer")
		}
	}
	return page, limit, nil
}
