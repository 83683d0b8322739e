package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/citydesk/announce-api/internal/dto"
	"github.com/citydesk/announce-api/internal/models"
	"github.com/citydesk/announce-api/pkg/export"
	appErrors "github.com/citydesk/announce-api/pkg/errors"
)

// exportTimeLayout renders timestamps for humans in exported documents. API
// responses always carry RFC3339.
const exportTimeLayout = "01/02/2006 15:04"

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error)
	GetByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement, categories models.CategorySet) error
	Update(ctx context.Context, id int64, update models.AnnouncementUpdate) (*models.Announcement, error)
}

// AnnouncementService orchestrates validation, category reconciliation and
// persistence for announcements.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger}
}

// ListAnnouncementsRequest carries raw listing filters from the query string.
type ListAnnouncementsRequest struct {
	Search     string
	Categories []string
}

// CreateAnnouncementRequest describes the create payload.
type CreateAnnouncementRequest struct {
	Title           string        `json:"title" validate:"required"`
	Content         string        `json:"content" validate:"required"`
	PublicationDate *dto.FlexTime `json:"publicationDate"`
	Categories      []int64       `json:"categories" validate:"required,min=1,dive,gt=0"`
}

// UpdateAnnouncementRequest describes the partial update payload. Absent
// fields leave the stored values, and the category set, unchanged.
type UpdateAnnouncementRequest struct {
	Title           *string       `json:"title" validate:"omitnil,min=1"`
	Content         *string       `json:"content" validate:"omitnil,min=1"`
	PublicationDate *dto.FlexTime `json:"publicationDate"`
	Categories      *[]int64      `json:"categories" validate:"omitnil,min=1,dive,gt=0"`
}

// List returns announcements matching the filters, newest first.
func (s *AnnouncementService) List(ctx context.Context, req ListAnnouncementsRequest) ([]models.Announcement, error) {
	filter := models.AnnouncementFilter{
		Search:      strings.TrimSpace(req.Search),
		CategoryIDs: parseCategoryIDs(req.Categories),
	}
	announcements, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list announcements", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return announcements, nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id int64) (*models.Announcement, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		s.logger.Error("get announcement", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get announcement")
	}
	return announcement, nil
}

// Create registers a new announcement with its categories attached. The
// publication date defaults to the creation time when omitted.
func (s *AnnouncementService) Create(ctx context.Context, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	publicationDate := time.Now().UTC()
	if req.PublicationDate != nil {
		publicationDate = req.PublicationDate.Time
	}

	announcement := &models.Announcement{
		Title:           req.Title,
		Content:         req.Content,
		PublicationDate: publicationDate,
	}
	if err := s.repo.Create(ctx, announcement, models.AttachCategories(req.Categories)); err != nil {
		s.logger.Error("create announcement", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// Update applies a partial update. Supplying categories replaces the relation
// set entirely; omitting them leaves it untouched.
func (s *AnnouncementService) Update(ctx context.Context, id int64, req UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	update := models.AnnouncementUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Categories: models.KeepCategories(),
	}
	if req.PublicationDate != nil {
		publicationDate := req.PublicationDate.Time
		update.PublicationDate = &publicationDate
	}
	if req.Categories != nil {
		update.Categories = models.ReplaceCategories(*req.Categories)
	}

	announcement, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		s.logger.Error("update announcement", zap.Int64("id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	return announcement, nil
}

// Export renders the filtered announcement list as a downloadable document.
// Returns the document bytes and their content type.
func (s *AnnouncementService) Export(ctx context.Context, req ListAnnouncementsRequest, format string) ([]byte, string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, "", appErrors.Validation([]appErrors.FieldError{
			{Field: "format", Message: "must be csv or pdf"},
		})
	}

	announcements, err := s.List(ctx, req)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "Title", "Content", "Publication Date", "Last Update", "Categories"},
	}
	for _, a := range announcements {
		names := make([]string, 0, len(a.Categories))
		for _, c := range a.Categories {
			names = append(names, c.Name)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":               strconv.FormatInt(a.ID, 10),
			"Title":            a.Title,
			"Content":          a.Content,
			"Publication Date": a.PublicationDate.Format(exportTimeLayout),
			"Last Update":      a.LastUpdate.Format(exportTimeLayout),
			"Categories":       strings.Join(names, ", "),
		})
	}

	switch format {
	case "pdf":
		payload, err := export.RenderPDF(dataset, "Announcements")
		if err != nil {
			s.logger.Error("export announcements", zap.String("format", format), zap.Error(err))
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export announcements")
		}
		return payload, "application/pdf", nil
	default:
		payload, err := export.RenderCSV(dataset)
		if err != nil {
			s.logger.Error("export announcements", zap.String("format", format), zap.Error(err))
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to export announcements")
		}
		return payload, "text/csv", nil
	}
}

// parseCategoryIDs normalizes repeatable query values into positive numeric
// ids, silently dropping anything unparsable. Comma-separated values inside a
// single parameter are accepted as well.
func parseCategoryIDs(values []string) []int64 {
	var ids []int64
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}
