package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/store/storetest"
)

func TestInquiries(t *testing.T) {
	f := newPropertyFixture(t)
	mailer := &storetest.Mailer{}
	svc := services.NewInquiryService(f.mem.Stores(), mailer, mail.Renderer{}, "admin@gharbari.com")
	ctx := context.Background()
	p := f.seed(t, listing("Flat", 100))

	in, err := svc.Create(ctx, services.InquiryInput{
		Property: p.ID.Hex(),
		Name:     "Sita",
		Email:    "Sita@Example.com",
		Message:  "Is parking included?",
	})
	require.NoError(t, err)
	assert.Equal(t, "sita@example.com", in.Email)
	assert.Equal(t, models.InquiryNew, in.Status)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "admin@gharbari.com", sent[0].To)
	assert.Contains(t, sent[0].HTML, "Is parking included?")

	_, err = svc.Create(ctx, services.InquiryInput{Property: primitive.NewObjectID().Hex(), Name: "x", Email: "x@example.com", Message: "m"})
	assert.True(t, errs.IsNotFound(err))
	_, err = svc.Create(ctx, services.InquiryInput{Property: p.ID.Hex(), Name: "x", Email: "bad", Message: "m"})
	assert.True(t, errs.IsValidation(err))

	view, err := svc.Get(ctx, in.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, view.Property)
	assert.Equal(t, "Flat", view.Property.Title)

	contacted := models.InquiryContacted
	updated, err := svc.Update(ctx, in.ID.Hex(), services.InquiryUpdate{Status: &contacted})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryContacted, updated.Status)

	bogus := models.InquiryStatus("LOST")
	_, err = svc.Update(ctx, in.ID.Hex(), services.InquiryUpdate{Status: &bogus})
	assert.True(t, errs.IsValidation(err))

	list, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.List(ctx, 1<<62, 100)
	assert.True(t, errs.IsValidation(err), "offset overflow")

	require.NoError(t, svc.Delete(ctx, in.ID.Hex()))
	assert.True(t, errs.IsNotFound(svc.Delete(ctx, in.ID.Hex())))
}

func TestInquiry_MailFailureIsNotFatal(t *testing.T) {
	f := newPropertyFixture(t)
	mailer := &storetest.Mailer{Err: errs.Upstream("Failed to send email", nil)}
	svc := services.NewInquiryService(f.mem.Stores(), mailer, mail.Renderer{}, "admin@gharbari.com")
	p := f.seed(t, listing("Flat", 100))

	_, err := svc.Create(context.Background(), services.InquiryInput{Property: p.ID.Hex(), Name: "x", Email: "x@example.com", Message: "m"})
	assert.NoError(t, err)
}
