package routes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dcode-github/gharbari/backend/controllers"
	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/metrics"
	"github.com/dcode-github/gharbari/backend/middleware"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

// Services bundles everything the HTTP layer calls into.
type Services struct {
	Accounts   *services.AccountService
	Properties *services.PropertyService
	Favorites  *services.FavoriteService
	Inquiries  *services.InquiryService
	Reviews    *services.ReviewService
	Team       *services.TeamService
	Blogs      *services.BlogService
	FAQs       *services.FAQService
	Locations  *services.LocationService

	Tokens *utils.TokenIssuer
	// Health is checked by /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
}

func Routes(router *mux.Router, s Services) {
	router.Use(middleware.Observe, middleware.Recover)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, r, errs.NotFound("Route not found"))
	})

	bearer := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(s.Tokens)(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(s.Tokens)(middleware.AdminOnly(s.Accounts)(h))
	}

	router.HandleFunc("/healthz", healthz(s.Health)).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Auth routes
	api.HandleFunc("/auth/register", controllers.RegisterUser(s.Accounts)).Methods("POST")
	api.HandleFunc("/auth/verify-email", controllers.VerifyEmail(s.Accounts)).Methods("POST")
	api.HandleFunc("/auth/login", controllers.LoginUser(s.Accounts)).Methods("POST")
	api.HandleFunc("/auth/resend-verification", controllers.ResendVerification(s.Accounts)).Methods("POST")
	api.HandleFunc("/auth/forgot-password", controllers.ForgotPassword(s.Accounts)).Methods("POST")
	api.HandleFunc("/auth/reset-password", controllers.ResetPassword(s.Accounts)).Methods("POST")
	api.Handle("/auth/change-password", bearer(controllers.ChangePassword(s.Accounts))).Methods("POST")
	api.Handle("/auth/me", bearer(controllers.Me(s.Accounts))).Methods("GET")

	// Property routes
	api.HandleFunc("/properties", controllers.GetAllProperties(s.Properties)).Methods("GET")
	api.Handle("/properties", admin(controllers.CreateProperty(s.Properties))).Methods("POST")
	api.HandleFunc("/properties/slug/{slug}", controllers.GetPropertyBySlug(s.Properties)).Methods("GET")
	api.HandleFunc("/properties/{id}", controllers.GetPropertyByID(s.Properties)).Methods("GET")
	api.Handle("/properties/{id}", admin(controllers.UpdateProperty(s.Properties))).Methods("PUT")
	api.Handle("/properties/{id}", admin(controllers.DeleteProperty(s.Properties))).Methods("DELETE")
	api.Handle("/properties/{id}/status", admin(controllers.UpdatePropertyStatus(s.Properties))).Methods("PATCH")
	api.Handle("/properties/{id}/verify", admin(controllers.VerifyProperty(s.Properties))).Methods("PATCH")

	// Favorites routes
	api.Handle("/favorites", bearer(controllers.GetFavorites(s.Favorites))).Methods("GET")
	api.Handle("/favorites/{propertyId}", bearer(controllers.AddFavorite(s.Favorites))).Methods("POST")
	api.Handle("/favorites/{propertyId}", bearer(controllers.RemoveFavorite(s.Favorites))).Methods("DELETE")

	// Inquiry routes
	api.HandleFunc("/inquiries", controllers.CreateInquiry(s.Inquiries)).Methods("POST")
	api.Handle("/inquiries", admin(controllers.GetInquiries(s.Inquiries))).Methods("GET")
	api.Handle("/inquiries/{id}", admin(controllers.GetInquiry(s.Inquiries))).Methods("GET")
	api.Handle("/inquiries/{id}", admin(controllers.UpdateInquiry(s.Inquiries))).Methods("PUT")
	api.Handle("/inquiries/{id}", admin(controllers.DeleteInquiry(s.Inquiries))).Methods("DELETE")

	// Content routes
	api.HandleFunc("/reviews", controllers.GetReviews(s.Reviews)).Methods("GET")
	api.Handle("/reviews", admin(controllers.CreateReview(s.Reviews))).Methods("POST")
	api.Handle("/reviews/{id}", admin(controllers.GetReview(s.Reviews))).Methods("GET")
	api.Handle("/reviews/{id}", admin(controllers.UpdateReview(s.Reviews))).Methods("PUT")
	api.Handle("/reviews/{id}", admin(controllers.DeleteReview(s.Reviews))).Methods("DELETE")

	api.HandleFunc("/team", controllers.GetTeam(s.Team)).Methods("GET")
	api.Handle("/team", admin(controllers.CreateTeamMember(s.Team))).Methods("POST")
	api.HandleFunc("/team/{id}", controllers.GetTeamMember(s.Team)).Methods("GET")
	api.Handle("/team/{id}", admin(controllers.UpdateTeamMember(s.Team))).Methods("PUT")
	api.Handle("/team/{id}", admin(controllers.DeleteTeamMember(s.Team))).Methods("DELETE")

	api.HandleFunc("/blogs", controllers.GetBlogs(s.Blogs)).Methods("GET")
	api.Handle("/blogs", admin(controllers.CreateBlog(s.Blogs))).Methods("POST")
	api.HandleFunc("/blogs/slug/{slug}", controllers.GetBlogBySlug(s.Blogs)).Methods("GET")
	api.HandleFunc("/blogs/{id}", controllers.GetBlog(s.Blogs)).Methods("GET")
	api.Handle("/blogs/{id}", admin(controllers.UpdateBlog(s.Blogs))).Methods("PUT")
	api.Handle("/blogs/{id}", admin(controllers.DeleteBlog(s.Blogs))).Methods("DELETE")

	api.HandleFunc("/faqs", controllers.GetFAQs(s.FAQs)).Methods("GET")
	api.Handle("/faqs", admin(controllers.CreateFAQ(s.FAQs))).Methods("POST")
	api.Handle("/faqs/{id}", admin(controllers.GetFAQ(s.FAQs))).Methods("GET")
	api.Handle("/faqs/{id}", admin(controllers.UpdateFAQ(s.FAQs))).Methods("PUT")
	api.Handle("/faqs/{id}", admin(controllers.DeleteFAQ(s.FAQs))).Methods("DELETE")

	api.HandleFunc("/locations", controllers.GetLocations(s.Locations)).Methods("GET")
	api.Handle("/locations", admin(controllers.CreateLocation(s.Locations))).Methods("POST")
	api.Handle("/locations/{id}", admin(controllers.DeleteLocation(s.Locations))).Methods("DELETE")
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				utils.WriteError(w, r, errs.Upstream("Database unavailable", err))
				return
			}
		}
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
