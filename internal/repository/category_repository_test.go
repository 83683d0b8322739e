package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citydesk/announce-api/internal/models"
)

func TestCategoryRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, display_name FROM categories ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow(1, "HEALTH", "Health").
			AddRow(2, "CITY", "City"))

	categories, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "HEALTH", categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("HEALTH", "Health").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	category := &models.Category{Name: "HEALTH", DisplayName: "Health"}
	require.NoError(t, repo.Create(context.Background(), category))
	assert.Equal(t, int64(1), category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepositoryUpsertByNameKeepsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("HEALTH", "Public Health").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "display_name"}).
			AddRow(1, "HEALTH", "Public Health"))

	category, err := repo.UpsertByName(context.Background(), "HEALTH", "Public Health")
	require.NoError(t, err)
	assert.Equal(t, int64(1), category.ID)
	assert.Equal(t, "Public Health", category.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
