package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/store/storetest"
	"github.com/dcode-github/gharbari/backend/utils"
)

var tokenInMail = regexp.MustCompile(`[0-9a-f]{64}`)

type accountFixture struct {
	mem    *storetest.Memory
	mailer *storetest.Mailer
	tokens *utils.TokenIssuer
	svc    *services.AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		mem:    storetest.New(),
		mailer: &storetest.Mailer{},
		tokens: utils.NewTokenIssuer("test-secret", time.Hour),
	}
	f.svc = services.NewAccountService(f.mem.Stores().Users, f.tokens, f.mailer, mail.Renderer{Support: "support@gharbari.com"})
	return f
}

func (f *accountFixture) lastToken(t *testing.T) string {
	t.Helper()
	sent := f.mailer.Sent()
	require.NotEmpty(t, sent)
	tok := tokenInMail.FindString(sent[len(sent)-1].HTML)
	require.NotEmpty(t, tok)
	return tok
}

var ram = services.RegisterInput{FullName: "Ram Thapa", Email: " Ram@Example.com ", Phone: "9800000000", Password: "supersecret"}

func TestRegister_VerifyLogin(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	user, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)
	assert.Equal(t, "ram@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.False(t, user.IsVerified)
	assert.NotEqual(t, "supersecret", user.Password)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ram@example.com", sent[0].To)

	_, err = f.svc.Login(ctx, "ram@example.com", "supersecret")
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))

	token := f.lastToken(t)
	require.NoError(t, f.svc.VerifyEmail(ctx, token))

	err = f.svc.VerifyEmail(ctx, token)
	assert.True(t, errs.IsValidation(err), "tokens are single use")

	res, err := f.svc.Login(ctx, "RAM@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.Equal(t, "Ram Thapa", res.User.FullName)

	claims, err := f.tokens.ValidateJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)

	again := ram
	again.Email = "RAM@example.com"
	_, err = f.svc.Register(ctx, again)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Len(t, f.mailer.Sent(), 1)
}

func TestRegister_Validation(t *testing.T) {
	f := newAccountFixture()
	for name, in := range map[string]services.RegisterInput{
		"short password": {FullName: "A", Email: "a@example.com", Phone: "1", Password: "short"},
		"bad email":      {FullName: "A", Email: "not-an-email", Phone: "1", Password: "longenough"},
		"no name":        {Email: "a@example.com", Phone: "1", Password: "longenough"},
	} {
		_, err := f.svc.Register(context.Background(), in)
		assert.True(t, errs.IsValidation(err), name)
	}
}

func TestRegister_MailFailureStillCreatesUser(t *testing.T) {
	f := newAccountFixture()
	f.mailer.Err = errs.Upstream("Failed to send email", nil)

	user, err := f.svc.Register(context.Background(), ram)
	require.NoError(t, err)
	_, err = f.mem.Stores().Users.FindByID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "nobody@example.com", "supersecret")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	assert.Equal(t, "Invalid credentials", errs.MessageOf(err))

	_, err = f.svc.Login(ctx, "ram@example.com", "wrong-password")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}

func TestResendVerification(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	err := f.svc.ResendVerification(ctx, "nobody@example.com")
	assert.True(t, errs.IsNotFound(err))

	_, err = f.svc.Register(ctx, ram)
	require.NoError(t, err)
	first := f.lastToken(t)

	require.NoError(t, f.svc.ResendVerification(ctx, "ram@example.com"))
	second := f.lastToken(t)
	assert.NotEqual(t, first, second)
	assert.True(t, errs.IsValidation(f.svc.VerifyEmail(ctx, first)))
	require.NoError(t, f.svc.VerifyEmail(ctx, second))

	err = f.svc.ResendVerification(ctx, "ram@example.com")
	assert.True(t, errs.IsValidation(err))
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, f.mailer.Sent())

	_, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(ctx, f.lastToken(t)))

	require.NoError(t, f.svc.ForgotPassword(ctx, "ram@example.com"))
	reset := f.lastToken(t)

	assert.True(t, errs.IsValidation(f.svc.ResetPassword(ctx, reset, "short")))
	require.NoError(t, f.svc.ResetPassword(ctx, reset, "brand-new-pass"))
	assert.True(t, errs.IsValidation(f.svc.ResetPassword(ctx, reset, "another-pass")))

	_, err = f.svc.Login(ctx, "ram@example.com", "supersecret")
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
	_, err = f.svc.Login(ctx, "ram@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestChangePasswordAndMe(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()
	user, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)
	id := user.ID.Hex()

	assert.True(t, errs.IsValidation(f.svc.ChangePassword(ctx, id, "wrong", "newpassword")))
	require.NoError(t, f.svc.ChangePassword(ctx, id, "supersecret", "newpassword"))

	me, err := f.svc.Me(ctx, id)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(me.Password, "newpassword"))
}

func TestCreateAdmin(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	admin, created, err := f.svc.CreateAdmin(ctx, services.RegisterInput{FullName: "Admin", Email: "admin@gharbari.com", Password: "adminpass"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)

	ok, err := f.svc.IsAdmin(ctx, admin.ID.Hex())
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := f.svc.Register(ctx, ram)
	require.NoError(t, err)
	ok, err = f.svc.IsAdmin(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.False(t, ok)

	_, created, err = f.svc.CreateAdmin(ctx, services.RegisterInput{Email: "RAM@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	ok, err = f.svc.IsAdmin(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, ok)
}
