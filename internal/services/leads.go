package services

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/stirlingqr/leadgate/internal/apperrors"
	"github.com/stirlingqr/leadgate/internal/models"
	"github.com/stirlingqr/leadgate/internal/repositories"
)

// The Service interface defines the business logic for lead capture and
// admin lead management
type Service interface {
	CreateLead(form *models.LeadForm) (models.Lead, *apperrors.AppError)
	ListLeads() ([]models.Lead, *apperrors.AppError)
	DeleteLeads(ids []string) (int, *apperrors.AppError)
	ExportCSV(w io.Writer) *apperrors.AppError
}

// The service struct uses the application repository to implement the
// Service interface. The clock and ID generator are injectable so tests
// can pin timestamps and lead IDs.
type service struct {
	repo  *repositories.CSVRepository
	now   func() time.Time
	newID func() string
}

// NewService returns a new service
func NewService(repo *repositories.CSVRepository) Service {
	return &service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// NewServiceWithClock returns a service with a pinned clock and ID generator
func NewServiceWithClock(repo *repositories.CSVRepository, now func() time.Time, newID func() string) Service {
	return &service{repo: repo, now: now, newID: newID}
}

// CreateLead validates the submitted form and, when every required field is
// present, appends exactly one new lead stamped with the submission time.
// A validation failure has no persistence side effect.
func (s *service) CreateLead(form *models.LeadForm) (models.Lead, *apperrors.AppError) {
	if !form.Validate() {
		return models.Lead{}, apperrors.Wrap(nil, apperrors.ErrInvalidInput, "Please complete all required fields")
	}

	lead := models.Lead{
		ID:        s.newID(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Company:   form.Company,
		Timestamp: s.now().Format(models.TimestampLayout),
	}

	if appErr := s.repo.Append(lead); appErr != nil {
		return models.Lead{}, appErr
	}
	return lead, nil
}

// ListLeads returns the full collection in arrival order
func (s *service) ListLeads() ([]models.Lead, *apperrors.AppError) {
	return s.repo.ListAll()
}

// DeleteLeads removes the selected leads and reports how many rows went away
func (s *service) DeleteLeads(ids []string) (int, *apperrors.AppError) {
	return s.repo.Delete(ids)
}

// ExportCSV streams the full current collection as UTF-8 CSV with a header
// row, suitable for the admin download action
func (s *service) ExportCSV(w io.Writer) *apperrors.AppError {
	leads, appErr := s.repo.ListAll()
	if appErr != nil {
		return appErr
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(models.CSVHeader); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to write export header")
	}
	for _, lead := range leads {
		if err := writer.Write(lead.Record()); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to write export row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCSVProcessing, "failed to flush export")
	}
	return nil
}
