package controllers

import (
	"net/http"

	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/utils"
)

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func RegisterUser(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.RegisterInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		user, err := svc.Register(r.Context(), in)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "Registration successful. Please check your email to verify your account.", user.Summary())
	}
}

func VerifyEmail(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.VerifyEmail(r.Context(), req.Token); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Email verified successfully.", nil)
	}
}

func LoginUser(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Login successful", res)
	}
}

func ResendVerification(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.ResendVerification(r.Context(), req.Email); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Verification email sent again.", nil)
	}
}

func ForgotPassword(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.ForgotPassword(r.Context(), req.Email); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "If the email is registered, a password reset email has been sent.", nil)
	}
}

func ResetPassword(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Password reset successful.", nil)
	}
}

func ChangePassword(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		var req changePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		if err := svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "Password changed successfully.", nil)
	}
}

func Me(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUser(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", user)
	}
}
