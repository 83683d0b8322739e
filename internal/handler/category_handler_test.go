package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citydesk/announce-api/internal/models"
	"github.com/citydesk/announce-api/internal/service"
	appErrors "github.com/citydesk/announce-api/pkg/errors"
)

type categoryServiceMock struct {
	listResp  []models.Category
	createErr error
}

func (m *categoryServiceMock) List(ctx context.Context) ([]models.Category, error) {
	return m.listResp, nil
}

func (m *categoryServiceMock) Create(ctx context.Context, req service.CreateCategoryRequest) (*models.Category, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Category{ID: 1, Name: req.Name, DisplayName: req.DisplayName}, nil
}

func TestCategoryHandlerList(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceMock{
		listResp: []models.Category{{ID: 1, Name: "HEALTH", DisplayName: "Health"}},
	})
	c, w := testContext(t, http.MethodGet, "/categories", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.Category
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "HEALTH", list[0].Name)
}

func TestCategoryHandlerCreate(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceMock{})
	c, w := testContext(t, http.MethodPost, "/categories", []byte(`{"name":"HEALTH","displayName":"Health"}`))

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestCategoryHandlerCreateValidationFailure(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceMock{
		createErr: appErrors.Validation([]appErrors.FieldError{{Field: "name", Message: "is required"}}),
	})
	c, w := testContext(t, http.MethodPost, "/categories", []byte(`{}`))

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"name"`)
}

func TestCategoryHandlerCreateMalformedBody(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceMock{})
	c, w := testContext(t, http.MethodPost, "/categories", []byte(`not-json`))

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
