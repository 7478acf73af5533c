package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dcode-github/gharbari/backend/errs"
	outbox "github.com/dcode-github/gharbari/backend/mail"
	"github.com/dcode-github/gharbari/backend/models"
	"github.com/dcode-github/gharbari/backend/store"
)

type InquiryService struct {
	inquiries  store.InquiryStore
	props      store.PropertyStore
	mailer     outbox.Sender
	render     outbox.Renderer
	adminEmail string
}

func NewInquiryService(stores store.Stores, mailer outbox.Sender, render outbox.Renderer, adminEmail string) *InquiryService {
	return &InquiryService{
		inquiries:  stores.Inquiries,
		props:      stores.Properties,
		mailer:     mailer,
		render:     render,
		adminEmail: adminEmail,
	}
}

type InquiryInput struct {
	Property string `json:"property"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

type InquiryUpdate struct {
	Name    *string               `json:"name"`
	Email   *string               `json:"email"`
	Phone   *string               `json:"phone"`
	Message *string               `json:"message"`
	Status  *models.InquiryStatus `json:"status"`
}

func validateInquiry(in *models.Inquiry) error {
	switch {
	case in.Name == "":
		return errs.Validation("Name is required")
	case !validEmail(in.Email):
		return errs.Validation("A valid email is required")
	case in.Message == "":
		return errs.Validation("Message is required")
	case !in.Status.Valid():
		return errs.Validationf("Invalid status %q", in.Status)
	}
	return nil
}

// Create stores a public inquiry and notifies the admin mailbox. A failed
// notification is logged only.
func (s *InquiryService) Create(ctx context.Context, in InquiryInput) (*models.Inquiry, error) {
	pid, err := parseID(in.Property, "property")
	if err != nil {
		return nil, err
	}
	inquiry := &models.Inquiry{
		PropertyID: pid,
		Name:       strings.TrimSpace(in.Name),
		Email:      normalizeEmail(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Message:    strings.TrimSpace(in.Message),
		Status:     models.InquiryNew,
	}
	if err := validateInquiry(inquiry); err != nil {
		return nil, err
	}
	prop, err := s.props.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}

	if s.adminEmail != "" {
		msg, err := s.render.Inquiry(s.adminEmail, *inquiry, prop)
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			slog.Error("Inquiry notification not sent",
				slog.String("inquiry", inquiry.ID.Hex()),
				slog.String("error", err.Error()))
		}
	}
	return inquiry, nil
}

func (s *InquiryService) List(ctx context.Context, page, limit int) ([]models.InquiryView, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	skip, err := pageSkip(page, limit)
	if err != nil {
		return nil, err
	}
	views, err := s.inquiries.List(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.InquiryView{}
	}
	return views, nil
}

func (s *InquiryService) Get(ctx context.Context, id string) (*models.InquiryView, error) {
	oid, err := parseID(id, "inquiry")
	if err != nil {
		return nil, err
	}
	return s.inquiries.View(ctx, oid)
}

func (s *InquiryService) Update(ctx context.Context, id string, upd InquiryUpdate) (*models.Inquiry, error) {
	oid, err := parseID(id, "inquiry")
	if err != nil {
		return nil, err
	}
	in, err := s.inquiries.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		in.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		in.Email = normalizeEmail(*upd.Email)
	}
	if upd.Phone != nil {
		in.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Message != nil {
		in.Message = strings.TrimSpace(*upd.Message)
	}
	if upd.Status != nil {
		in.Status = *upd.Status
	}
	if err := validateInquiry(in); err != nil {
		return nil, err
	}
	if err := s.inquiries.Replace(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *InquiryService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, "inquiry")
	if err != nil {
		return err
	}
	return s.inquiries.Delete(ctx, oid)
}
