package services

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	outbox "github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
	"github.com/dcode-github/gharbari/backend/utils"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
	minPasswordLen  = 8
)

type AccountService struct {
	users  store.UserStore
	tokens *utils.TokenIssuer
	mailer outbox.Sender
	render outbox.Renderer
	now    func() time.Time
}

func NewAccountService(users store.UserStore, tokens *utils.TokenIssuer, mailer outbox.Sender, render outbox.Renderer) *AccountService {
	return &AccountService{users: users, tokens: tokens, mailer: mailer, render: render, now: time.Now}
}

type RegisterInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return errs.Validationf("Password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	switch {
	case in.FullName == "":
		return nil, errs.Validation("Full name is required")
	case !validEmail(in.Email):
		return nil, errs.Validation("A valid email is required")
	case in.Phone == "":
		return nil, errs.Validation("Phone is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}
	token, err := utils.RandomToken()
	if err != nil {
		return nil, errs.Internal("generate token", err)
	}
	expires := s.now().Add(verificationTTL)

	user := &models.User{
		FullName:                 in.FullName,
		Email:                    in.Email,
		Phone:                    in.Phone,
		Password:                 hash,
		Role:                     models.RoleCustomer,
		EmailVerificationToken:   token,
		EmailVerificationExpires: &expires,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	msg, err := s.render.Verification(user.Email, user.FullName, token, false)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		slog.Error("Verification email not sent",
			slog.String("user", user.ID.Hex()),
			slog.String("error", err.Error()))
	}

	slog.Info("User registered", slog.String("user", user.ID.Hex()))
	return user, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return errs.Validation("Verification token is required")
	}
	_, err := s.users.ConsumeVerificationToken(ctx, token, s.now())
	if errs.IsNotFound(err) {
		return errs.Validation("Invalid or expired verification token")
	}
	return err
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errs.IsNotFound(err) {
		return nil, errs.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, errs.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, errs.Forbidden("Please verify your email first")
	}

	token, err := s.tokens.GenerateJWT(user.ID.Hex())
	if err != nil {
		return nil, errs.Internal("sign token", err)
	}
	return &LoginResult{Token: token, User: user.Summary()}, nil
}

func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if user.IsVerified {
		return errs.Validation("Email already verified")
	}

	token, err := utils.RandomToken()
	if err != nil {
		return errs.Internal("generate token", err)
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, token, s.now().Add(verificationTTL)); err != nil {
		return err
	}

	msg, err := s.render.Verification(user.Email, user.FullName, token, true)
	if err != nil {
		return errs.Internal("render email", err)
	}
	return s.mailer.Send(ctx, msg)
}

// ForgotPassword succeeds silently for unknown emails.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errs.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := utils.RandomToken()
	if err != nil {
		return errs.Internal("generate token", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(resetTTL)); err != nil {
		return err
	}

	msg, err := s.render.PasswordReset(user.Email, token)
	if err != nil {
		return errs.Internal("render email", err)
	}
	return s.mailer.Send(ctx, msg)
}

func (s *AccountService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return errs.Validation("Reset token is required")
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return errs.Internal("hash password", err)
	}
	err = s.users.ConsumeResetToken(ctx, token, s.now(), hash)
	if errs.IsNotFound(err) {
		return errs.Validation("Invalid or expired reset token")
	}
	return err
}

func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	oid, err := parseID(userID, "user")
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, oid)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, current) {
		return errs.Validation("Current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return errs.Internal("hash password", err)
	}
	return s.users.UpdatePassword(ctx, oid, hash)
}

func (s *AccountService) Me(ctx context.Context, userID string) (*models.User, error) {
	oid, err := parseID(userID, "user")
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, oid)
}

// IsAdmin reports whether the persisted role of userID is ADMIN.
func (s *AccountService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}
	user, err := s.users.FindByID(ctx, oid)
	if errs.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// CreateAdmin creates a verified ADMIN account, or promotes the existing
// account with that email.
func (s *AccountService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, bool, error) {
	email := normalizeEmail(in.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return nil, false, err
		}
		existing.Role = models.RoleAdmin
		return existing, false, nil
	case !errs.IsNotFound(err):
		return nil, false, err
	}

	if !validEmail(email) {
		return nil, false, errs.Validation("A valid email is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, false, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, false, errs.Internal("hash password", err)
	}
	user := &models.User{
		FullName:   strings.TrimSpace(in.FullName),
		Email:      email,
		Phone:      strings.TrimSpace(in.Phone),
		Password:   hash,
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
