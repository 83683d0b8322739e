package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citydesk/announce-api/internal/models"
	"github.com/citydesk/announce-api/internal/service"
	appErrors "github.com/citydesk/announce-api/pkg/errors"
	"github.com/citydesk/announce-api/pkg/response"
)

type announcementService interface {
	List(ctx context.Context, req service.ListAnnouncementsRequest) ([]models.Announcement, error)
	Get(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, req service.CreateAnnouncementRequest) (*models.Announcement, error)
	Update(ctx context.Context, id int64, req service.UpdateAnnouncementRequest) (*models.Announcement, error)
	Export(ctx context.Context, req service.ListAnnouncementsRequest, format string) ([]byte, string, error)
}

// AnnouncementHandler handles announcement endpoints.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs an announcement handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc}
}

// List godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param search query string false "Case-insensitive substring match on title or content"
// @Param categories query []int false "Category id filter, repeatable"
// @Success 200 {array} models.Announcement
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	req := service.ListAnnouncementsRequest{
		Search:     c.Query("search"),
		Categories: c.QueryArray("categories"),
	}
	announcements, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements)
}

// Get godoc
// @Summary Get announcement by id
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} models.Announcement
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	announcement, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement)
}

// Create godoc
// @Summary Create announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} models.Announcement
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	announcement, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, announcement)
}

// Update godoc
// @Summary Update announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param payload body service.UpdateAnnouncementRequest true "Partial announcement payload"
// @Success 200 {object} models.Announcement
// @Router /announcements/{id} [patch]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	announcement, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement)
}

// Export godoc
// @Summary Export announcements as CSV or PDF
// @Tags Announcements
// @Produce text/csv
// @Produce application/pdf
// @Param search query string false "Case-insensitive substring match on title or content"
// @Param categories query []int false "Category id filter, repeatable"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /announcements/export [get]
func (h *AnnouncementHandler) Export(c *gin.Context) {
	req := service.ListAnnouncementsRequest{
		Search:     c.Query("search"),
		Categories: c.QueryArray("categories"),
	}
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.Export(c.Request.Context(), req, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=announcements."+format)
	c.Data(http.StatusOK, contentType, payload)
}

// parseID coerces the path id into a positive integer. Malformed ids fail
// validation instead of silently defaulting.
func parseID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Validation([]appErrors.FieldError{
			{Field: "id", Message: "must be a positive integer"},
		})
	}
	return id, nil
}
