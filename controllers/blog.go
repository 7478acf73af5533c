package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

func GetBlogs(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := pageParams(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		blogs, pagination, err := svc.List(r.Context(), r.URL.Query().Get("search"), page, limit)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, pageResponse{Success: true, Data: blogs, Pagination: pagination})
	}
}

func GetBlog(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.Get(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", b)
	}
}

func GetBlogBySlug(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBySlug(r.Context(), mux.Vars(r)["slug"])
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", b)
	}
}

func CreateBlog(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.BlogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		b, err := svc.Create(r.Context(), in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Blog created", b)
	}
}

func UpdateBlog(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.BlogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		b, err := svc.Update(r.Context(), mux.Vars(r)["id"], in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Blog updated", b)
	}
}

func DeleteBlog(svc *services.BlogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Blog deleted", nil)
	}
}
