package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
)

func TestPropertyForm_TypedFields(t *testing.T) {
	upd, removed, err := propertyForm(map[string][]string{
		"title":         {" House in Baneshwor "},
		"price":         {"15000000"},
		"negotiable":    {"true"},
		"wardNo":        {"10"},
		"purpose":       {"SALE"},
		"area":          {`{"value":4,"unit":"AANA"}`},
		"documents":     {`{"lalpurja":"https://x/l.jpg"}`},
		"removedImages": {`["a"]`, "b,c"},
	})
	require.NoError(t, err)

	assert.Equal(t, "House in Baneshwor", *upd.Title)
	assert.Equal(t, 15000000.0, *upd.Price)
	assert.True(t, *upd.Negotiable)
	assert.Equal(t, 10, *upd.WardNo)
	assert.Equal(t, models.PurposeSale, *upd.Purpose)
	assert.Equal(t, models.Area{Value: 4, Unit: models.AreaUnitAana}, *upd.Area)
	assert.Equal(t, "https://x/l.jpg", upd.Documents.Lalpurja)
	assert.Nil(t, upd.City)
	assert.Equal(t, []string{`["a"]`, "b,c"}, removed)
}

func TestPropertyForm_FlattenedArea(t *testing.T) {
	upd, _, err := propertyForm(map[string][]string{
		"area.value": {"2.5"},
		"area.unit":  {"ROPANI"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Area{Value: 2.5, Unit: models.AreaUnitRopani}, *upd.Area)

	_, _, err = propertyForm(map[string][]string{"area.value": {"2.5"}})
	assert.True(t, errs.IsValidation(err))
}

func TestPropertyForm_Rejects(t *testing.T) {
	cases := map[string]map[string][]string{
		"unknown field":       {"bedrooms": {"3"}},
		"non numeric price":   {"price": {"a lot"}},
		"non integer ward":    {"wardNo": {"1.5"}},
		"bad bool":            {"negotiable": {"maybe"}},
		"area not json":       {"area": {"4 aana"}},
		"area unknown key":    {"area": {`{"value":4,"unit":"AANA","sqft":1}`}},
		"documents not json":  {"documents": {"lalpurja"}},
		"road access garbage": {"roadAccess": {"wide"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := propertyForm(form)
			assert.True(t, errs.IsValidation(err), "got %v", err)
		})
	}
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, ctype := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+name+`"`)
		h.Set("Content-Type", ctype)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPut, "/api/properties/x", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestPropertyUpdateRequest_Multipart(t *testing.T) {
	r := multipartRequest(t,
		map[string]string{"title": "New title", "removedImages": "u1"},
		map[string]string{"d.jpg": "image/jpeg"})
	w := httptest.NewRecorder()

	isJSON, err := parseForm(w, r)
	require.NoError(t, err)
	require.False(t, isJSON)

	req, closer, err := propertyUpdateRequest(r)
	defer closer()
	require.NoError(t, err)
	assert.Equal(t, "New title", *req.Fields.Title)
	assert.Equal(t, []string{"u1"}, req.RemovedImages)
	require.Len(t, req.Files, 1)
	assert.Equal(t, "d.jpg", req.Files[0].Name)
}

func TestPropertyUpdateRequest_RejectsNonImage(t *testing.T) {
	r := multipartRequest(t, nil, map[string]string{"notes.pdf": "application/pdf"})
	_, err := parseForm(httptest.NewRecorder(), r)
	require.NoError(t, err)

	_, closer, err := propertyUpdateRequest(r)
	defer closer()
	assert.True(t, errs.IsValidation(err))
}

func TestParseForm_URLEncoded(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/api/properties/x", strings.NewReader("city=Lalitpur"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := parseForm(httptest.NewRecorder(), r)
	require.NoError(t, err)
	req, closer, err := propertyUpdateRequest(r)
	defer closer()
	require.NoError(t, err)
	assert.Equal(t, "Lalitpur", *req.Fields.City)
	assert.Empty(t, req.Files)
}

func TestContentForm(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"name":"Sita","rating":5}`))
		r.Header.Set("Content-Type", "application/json")
		var in services.ReviewInput
		image, closer, err := contentForm(httptest.NewRecorder(), r, &in, "isActive")
		defer closer()
		require.NoError(t, err)
		assert.Nil(t, image)
		assert.Equal(t, "Sita", *in.Name)
		assert.Equal(t, 5, *in.Rating)
	})

	t.Run("form", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader("name=Sita&rating=4&isActive=false"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var in services.ReviewInput
		_, closer, err := contentForm(httptest.NewRecorder(), r, &in, "isActive")
		defer closer()
		require.NoError(t, err)
		assert.Equal(t, 4, *in.Rating)
		assert.False(t, *in.IsActive)
	})

	t.Run("unknown field", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/team", strings.NewReader("name=Hari&salary=1"))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var in services.TeamInput
		_, closer, err := contentForm(httptest.NewRecorder(), r, &in, "isActive")
		defer closer()
		assert.True(t, errs.IsValidation(err))
	})
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","extra":1}`))
	assert.True(t, errs.IsValidation(decodeJSON(httptest.NewRecorder(), r, &v)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.True(t, errs.IsValidation(decodeJSON(httptest.NewRecorder(), r, &v)))
}
