package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/storage"
	"github.com/dcode-github/gharbari/backend/store"
	"github.com/dcode-github/gharbari/backend/store/storetest"
)

func ptr[T any](v T) *T { return &v }

func TestReviews_ImageLifecycle(t *testing.T) {
	mem, gw := storetest.New(), storetest.NewGateway()
	svc := services.NewReviewService(mem.Stores(), gw)
	ctx := context.Background()

	img := storage.File{Name: "face.jpg"}
	r, err := svc.Create(ctx, services.ReviewInput{Name: ptr("Hari"), Message: ptr("Great service"), Rating: ptr(5)}, &img)
	require.NoError(t, err)
	first := storetest.URLFor("face.jpg", 1)
	assert.Equal(t, first, r.Image)
	assert.True(t, r.IsActive)

	_, err = svc.Create(ctx, services.ReviewInput{Name: ptr("x"), Message: ptr("y"), Rating: ptr(6)}, nil)
	assert.True(t, errs.IsValidation(err))

	next := storage.File{Name: "new.jpg"}
	r, err = svc.Update(ctx, r.ID.Hex(), services.ReviewInput{Rating: ptr(4)}, &next)
	require.NoError(t, err)
	assert.Equal(t, storetest.URLFor("new.jpg", 2), r.Image)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, []string{first}, gw.DeletedURLs())

	_, err = svc.Update(ctx, r.ID.Hex(), services.ReviewInput{IsActive: ptr(false)}, nil)
	require.NoError(t, err)
	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, svc.Delete(ctx, r.ID.Hex()))
	assert.Equal(t, []string{first, storetest.URLFor("new.jpg", 2)}, gw.DeletedURLs())
}

func TestTeam_RequiresImage(t *testing.T) {
	mem, gw := storetest.New(), storetest.NewGateway()
	svc := services.NewTeamService(mem.Stores(), gw)
	ctx := context.Background()

	_, err := svc.Create(ctx, services.TeamInput{Name: ptr("Gita"), Title: ptr("Agent")}, nil)
	assert.True(t, errs.IsValidation(err))

	m, err := svc.Create(ctx, services.TeamInput{Name: ptr("Gita"), Title: ptr("Agent")}, &storage.File{Name: "gita.png"})
	require.NoError(t, err)
	assert.Equal(t, storetest.URLFor("gita.png", 1), m.Image)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	gw.FailDeleteOn[m.Image] = true
	require.NoError(t, svc.Delete(ctx, m.ID.Hex()))
	assert.Equal(t, []string{m.Image}, mem.OrphanURLs())
}

func TestBlogs(t *testing.T) {
	svc := services.NewBlogService(storetest.New().Stores())
	ctx := context.Background()

	b, err := svc.Create(ctx, services.BlogInput{Title: ptr("Buying Land in Nepal"), Content: ptr("..."), Author: ptr("Team")})
	require.NoError(t, err)
	assert.Equal(t, "buying-land-in-nepal", b.Slug)
	assert.True(t, b.IsPublished)

	_, err = svc.Create(ctx, services.BlogInput{Title: ptr("Buying land in Nepal!"), Content: ptr("x"), Author: ptr("y")})
	assert.True(t, errs.IsValidation(err), "slug collision")

	b, err = svc.Update(ctx, b.ID.Hex(), services.BlogInput{Title: ptr("Renting in Kathmandu")})
	require.NoError(t, err)
	assert.Equal(t, "renting-in-kathmandu", b.Slug)

	got, err := svc.GetBySlug(ctx, "renting-in-kathmandu")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	list, pg, err := svc.List(ctx, "kathmandu", 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), pg.Total)
	assert.Equal(t, 1, pg.TotalPages)

	_, _, err = svc.List(ctx, "", 1<<62, 100)
	assert.True(t, errs.IsValidation(err), "offset overflow")

	require.NoError(t, svc.Delete(ctx, b.ID.Hex()))
	_, err = svc.Get(ctx, b.ID.Hex())
	assert.True(t, errs.IsNotFound(err))
}

func TestFAQs(t *testing.T) {
	svc := services.NewFAQService(storetest.New().Stores())
	ctx := context.Background()

	a, err := svc.Create(ctx, services.FAQInput{Question: ptr("How to list?"), Answer: ptr("Contact us.")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.FAQInput{Question: ptr("Old?"), Answer: ptr("Yes."), IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.FAQInput{Question: ptr("No answer")})
	assert.True(t, errs.IsValidation(err))

	active, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	a, err = svc.Update(ctx, a.ID.Hex(), services.FAQInput{Answer: ptr("Email us.")})
	require.NoError(t, err)
	assert.Equal(t, "Email us.", a.Answer)
}

func TestLocations(t *testing.T) {
	svc := services.NewLocationService(storetest.New().Stores())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.Location{Province: "Bagmati", District: "Lalitpur", Municipality: "LMC", Ward: 3})
	require.NoError(t, err)
	l, err := svc.Create(ctx, models.Location{Province: "Gandaki", District: "Kaski", Municipality: "Pokhara", Ward: 6})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.Location{Province: "Gandaki", District: "Kaski", Municipality: "Pokhara"})
	assert.True(t, errs.IsValidation(err))

	got, err := svc.List(ctx, store.LocationFilter{Province: "Gandaki"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pokhara", got[0].Municipality)

	require.NoError(t, svc.Delete(ctx, l.ID.Hex()))
	got, err = svc.List(ctx, store.LocationFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
