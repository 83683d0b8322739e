package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citydesk/announce-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func announcementRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "content", "publication_date", "last_update"})
	for _, id := range ids {
		rows.AddRow(id, "Title", "Content", time.Now(), time.Now())
	}
	return rows
}

func categoryJoinRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"announcement_id", "id", "name", "display_name"})
}

func TestAnnouncementRepositoryListNoFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, publication_date, last_update FROM announcements ORDER BY last_update DESC")).
		WillReturnRows(announcementRows(2, 1))
	mock.ExpectQuery("SELECT ac.announcement_id, c.id, c.name, c.display_name").
		WillReturnRows(categoryJoinRows().
			AddRow(2, 1, "HEALTH", "Health").
			AddRow(1, 1, "HEALTH", "Health").
			AddRow(1, 3, "CITY", "City"))

	list, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Len(t, list[0].Categories, 1)
	assert.Len(t, list[1].Categories, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryListWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	query := "SELECT id, title, content, publication_date, last_update FROM announcements " +
		"WHERE (title ILIKE $1 OR content ILIKE $2) " +
		"AND EXISTS (SELECT 1 FROM announcement_categories ac WHERE ac.announcement_id = announcements.id AND ac.category_id = ANY($3)) " +
		"ORDER BY last_update DESC"
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("%Test%", "%Test%", sqlmock.AnyArg()).
		WillReturnRows(announcementRows(1))
	mock.ExpectQuery("SELECT ac.announcement_id, c.id, c.name, c.display_name").
		WillReturnRows(categoryJoinRows().AddRow(1, 2, "CULTURE", "Culture"))

	list, err := repo.List(context.Background(), models.AnnouncementFilter{
		Search:      "Test",
		CategoryIDs: []int64{2, 4},
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CULTURE", list[0].Categories[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryGetByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, publication_date, last_update FROM announcements WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryCreateConnectsCategories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO announcements").
		WithArgs("T", "C", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "publication_date", "last_update"}).AddRow(7, now, now))
	mock.ExpectExec("INSERT INTO announcement_categories").
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT ac.announcement_id, c.id, c.name, c.display_name").
		WillReturnRows(categoryJoinRows().
			AddRow(7, 1, "HEALTH", "Health").
			AddRow(7, 2, "CITY", "City"))

	announcement := &models.Announcement{Title: "T", Content: "C", PublicationDate: now}
	err := repo.Create(context.Background(), announcement, models.AttachCategories([]int64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(7), announcement.ID)
	assert.Len(t, announcement.Categories, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE announcements SET").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	title := "X"
	_, err := repo.Update(context.Background(), 999999, models.AnnouncementUpdate{
		Title:      &title,
		Categories: models.KeepCategories(),
	})
	require.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryUpdateReplacesCategories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE announcements SET last_update = NOW() WHERE id = $1 RETURNING id, title, content, publication_date, last_update")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "publication_date", "last_update"}).
			AddRow(5, "T", "C", now, now))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM announcement_categories WHERE announcement_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO announcement_categories").
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT ac.announcement_id, c.id, c.name, c.display_name").
		WillReturnRows(categoryJoinRows().AddRow(5, 8, "HEALTH", "Health"))

	updated, err := repo.Update(context.Background(), 5, models.AnnouncementUpdate{
		Categories: models.ReplaceCategories([]int64{8}),
	})
	require.NoError(t, err)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, int64(8), updated.Categories[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryUpdateKeepLeavesRelationsAlone(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE announcements SET last_update = NOW(), title = $1 WHERE id = $2 RETURNING id, title, content, publication_date, last_update")).
		WithArgs("T2", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "publication_date", "last_update"}).
			AddRow(5, "T2", "C", now, now))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT ac.announcement_id, c.id, c.name, c.display_name").
		WillReturnRows(categoryJoinRows().AddRow(5, 1, "HEALTH", "Health"))

	title := "T2"
	updated, err := repo.Update(context.Background(), 5, models.AnnouncementUpdate{
		Title:      &title,
		Categories: models.KeepCategories(),
	})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	require.Len(t, updated.Categories, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
