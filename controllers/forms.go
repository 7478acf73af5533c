package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/services"
	"github.com/dcode-github/gharbari/backend/storage"
)

const (
	maxUploadBody   = 50 << 20
	maxUploadMemory = 10 << 20
)

// parseForm reads a multipart or urlencoded body. A JSON body is left alone
// and reported with isJSON.
func parseForm(w http.ResponseWriter, r *http.Request) (isJSON bool, err error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return true, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	err = r.ParseMultipartForm(maxUploadMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return false, errs.Validation("Request body too large")
		}
		return false, errs.Validationf("Invalid form data: %v", err)
	}
	return false, nil
}

// formFiles opens the uploads under field. Non-image parts are rejected.
// The returned closer releases every opened file.
func formFiles(r *http.Request, field string) ([]storage.File, func(), error) {
	var (
		files  []storage.File
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}
	for _, fh := range r.MultipartForm.File[field] {
		if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			closeAll()
			return nil, func() {}, errs.Validationf("File %q is not an image", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, errs.Internal("open upload", err)
		}
		opened = append(opened, f)
		files = append(files, storage.File{Name: fh.Filename, Size: fh.Size, Reader: f})
	}
	return files, closeAll, nil
}

func singleFile(r *http.Request, field string) (*storage.File, func(), error) {
	files, closer, err := formFiles(r, field)
	if err != nil {
		return nil, closer, err
	}
	switch len(files) {
	case 0:
		return nil, closer, nil
	case 1:
		return &files[0], closer, nil
	}
	closer()
	return nil, func() {}, errs.Validationf("Only one %q file is allowed", field)
}

var propertyFields = map[string]bool{
	"title": true, "description": true, "purpose": true, "propertyType": true,
	"price": true, "negotiable": true, "area": true, "area.value": true,
	"area.unit": true, "city": true, "areaName": true, "municipality": true,
	"wardNo": true, "roadType": true, "roadAccess": true,
	"ringRoadDistance": true, "propertyFace": true, "documents": true,
	"status": true, "slug": true, "removedImages": true,
}

// propertyForm maps the text fields of a property form onto a typed update.
// It returns the raw removedImages values alongside.
func propertyForm(values map[string][]string) (models.PropertyUpdate, []string, error) {
	var upd models.PropertyUpdate
	for key := range values {
		if !propertyFields[key] {
			return upd, nil, errs.Validationf("Unknown field %q", key)
		}
	}
	get := func(key string) (string, bool) {
		v, ok := values[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return strings.TrimSpace(v[0]), true
	}

	str := func(key string, dst **string) {
		if v, ok := get(key); ok {
			*dst = &v
		}
	}
	str("title", &upd.Title)
	str("description", &upd.Description)
	str("city", &upd.City)
	str("areaName", &upd.AreaName)
	str("municipality", &upd.Municipality)
	str("slug", &upd.Slug)

	if v, ok := get("purpose"); ok {
		p := models.Purpose(v)
		upd.Purpose = &p
	}
	if v, ok := get("propertyType"); ok {
		t := models.PropertyType(v)
		upd.PropertyType = &t
	}
	if v, ok := get("roadType"); ok {
		t := models.RoadType(v)
		upd.RoadType = &t
	}
	if v, ok := get("propertyFace"); ok {
		f := models.PropertyFace(v)
		upd.PropertyFace = &f
	}
	if v, ok := get("status"); ok {
		s := models.PropertyStatus(v)
		upd.Status = &s
	}

	var err error
	if upd.Price, err = floatField(get, "price"); err != nil {
		return upd, nil, err
	}
	if upd.RoadAccess, err = floatField(get, "roadAccess"); err != nil {
		return upd, nil, err
	}
	if upd.RingRoadDistance, err = floatField(get, "ringRoadDistance"); err != nil {
		return upd, nil, err
	}
	if v, ok := get("wardNo"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return upd, nil, errs.Validation("wardNo must be an integer")
		}
		upd.WardNo = &n
	}
	if v, ok := get("negotiable"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return upd, nil, errs.Validation("negotiable must be true or false")
		}
		upd.Negotiable = &b
	}

	if upd.Area, err = areaField(get); err != nil {
		return upd, nil, err
	}
	if v, ok := get("documents"); ok {
		var docs models.PropertyDocuments
		if err := strictUnmarshal(v, &docs); err != nil {
			return upd, nil, errs.Validationf("documents must be a JSON object: %v", err)
		}
		upd.Documents = &docs
	}

	return upd, values["removedImages"], nil
}

func floatField(get func(string) (string, bool), key string) (*float64, error) {
	v, ok := get(key)
	if !ok {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errs.Validationf("%s must be a number", key)
	}
	return &f, nil
}

// areaField accepts either a JSON "area" value or the flattened
// area.value / area.unit pair.
func areaField(get func(string) (string, bool)) (*models.Area, error) {
	if v, ok := get("area"); ok {
		var a models.Area
		if err := strictUnmarshal(v, &a); err != nil {
			return nil, errs.Validationf("area must be a JSON object: %v", err)
		}
		return &a, nil
	}
	value, hasValue := get("area.value")
	unit, hasUnit := get("area.unit")
	if !hasValue && !hasUnit {
		return nil, nil
	}
	if !hasValue || !hasUnit {
		return nil, errs.Validation("area.value and area.unit must be sent together")
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, errs.Validation("area.value must be a number")
	}
	return &models.Area{Value: f, Unit: models.AreaUnit(unit)}, nil
}

func strictUnmarshal(s string, v any) error {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// propertyUpdateRequest builds the full update request from a parsed form.
func propertyUpdateRequest(r *http.Request) (services.PropertyUpdateRequest, func(), error) {
	upd, removed, err := propertyForm(r.PostForm)
	if err != nil {
		return services.PropertyUpdateRequest{}, func() {}, err
	}
	if r.MultipartForm != nil {
		for key := range r.MultipartForm.File {
			if key != "images" {
				return services.PropertyUpdateRequest{}, func() {}, errs.Validationf("Unknown file field %q", key)
			}
		}
	}
	files, closer, err := formFiles(r, "images")
	if err != nil {
		return services.PropertyUpdateRequest{}, closer, err
	}
	return services.PropertyUpdateRequest{Fields: upd, RemovedImages: removed, Files: files}, closer, nil
}

// contentForm decodes review and team payloads sent either as JSON or as a
// form with an optional "image" file. Form values are re-encoded as JSON so
// both paths share one decoder with the same unknown-field rule.
func contentForm(w http.ResponseWriter, r *http.Request, v any, boolFields ...string) (*storage.File, func(), error) {
	isJSON, err := parseForm(w, r)
	if err != nil {
		return nil, func() {}, err
	}
	if isJSON {
		return nil, func() {}, decodeJSON(w, r, v)
	}

	obj := map[string]any{}
	for key, vals := range r.PostForm {
		if len(vals) == 0 {
			continue
		}
		val := strings.TrimSpace(vals[0])
		switch {
		case contains(boolFields, key):
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, func() {}, errs.Validationf("%s must be true or false", key)
			}
			obj[key] = b
		case key == "rating":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, func() {}, errs.Validation("rating must be an integer")
			}
			obj[key] = n
		default:
			obj[key] = val
		}
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, func() {}, errs.Internal("encode form", err)
	}
	if err := strictUnmarshal(string(raw), v); err != nil {
		return nil, func() {}, errs.Validationf("Invalid request payload: %v", err)
	}
	return singleFile(r, "image")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
