package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/citydesk/announce-api/internal/models"
)

const announcementColumns = "id, title, content, publication_date, last_update"

// AnnouncementRepository provides persistence for announcements and their
// category relations.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements matching the filter, newest first by last_update,
// with categories populated.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, error) {
	qb := sq.Select("id", "title", "content", "publication_date", "last_update").
		From("announcements").
		OrderBy("last_update DESC").
		PlaceholderFormat(sq.Dollar)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}
	if len(filter.CategoryIDs) > 0 {
		qb = qb.Where(
			"EXISTS (SELECT 1 FROM announcement_categories ac WHERE ac.announcement_id = announcements.id AND ac.category_id = ANY(?))",
			pq.Array(filter.CategoryIDs),
		)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build announcement query: %w", err)
	}

	announcements := []models.Announcement{}
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	if err := r.attachCategories(ctx, announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// GetByID returns an announcement with categories populated. A missing row
// surfaces as sql.ErrNoRows.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	query := fmt.Sprintf("SELECT %s FROM announcements WHERE id = $1", announcementColumns)
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	rows := []models.Announcement{announcement}
	if err := r.attachCategories(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// Create inserts a new announcement and connects its categories in one
// transaction. The row's id and timestamps are filled in from the database.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement, categories models.CategorySet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create announcement: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insert = `INSERT INTO announcements (title, content, publication_date, last_update)
VALUES ($1, $2, $3, NOW()) RETURNING id, publication_date, last_update`
	row := tx.QueryRowxContext(ctx, insert, announcement.Title, announcement.Content, announcement.PublicationDate)
	if err := row.Scan(&announcement.ID, &announcement.PublicationDate, &announcement.LastUpdate); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}

	if err := applyCategorySet(ctx, tx, announcement.ID, categories); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create announcement: %w", err)
	}

	rows := []models.Announcement{*announcement}
	if err := r.attachCategories(ctx, rows); err != nil {
		return err
	}
	*announcement = rows[0]
	return nil
}

// Update applies a partial update and reconciles category relations in one
// transaction. A missing row surfaces as sql.ErrNoRows; last_update is always
// refreshed, even for a categories-only change.
func (r *AnnouncementRepository) Update(ctx context.Context, id int64, update models.AnnouncementUpdate) (*models.Announcement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update announcement: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ub := sq.Update("announcements").
		Set("last_update", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + announcementColumns).
		PlaceholderFormat(sq.Dollar)
	if update.Title != nil {
		ub = ub.Set("title", *update.Title)
	}
	if update.Content != nil {
		ub = ub.Set("content", *update.Content)
	}
	if update.PublicationDate != nil {
		ub = ub.Set("publication_date", *update.PublicationDate)
	}

	query, args, err := ub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build announcement update: %w", err)
	}

	var announcement models.Announcement
	if err := tx.QueryRowxContext(ctx, query, args...).StructScan(&announcement); err != nil {
		return nil, err
	}

	if err := applyCategorySet(ctx, tx, id, update.Categories); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update announcement: %w", err)
	}

	rows := []models.Announcement{announcement}
	if err := r.attachCategories(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// applyCategorySet translates a reconciliation directive into relation-table
// statements. Replace is a full overwrite, never a merge. Referential
// existence of the ids is left to the category_id foreign key.
func applyCategorySet(ctx context.Context, tx *sqlx.Tx, announcementID int64, set models.CategorySet) error {
	switch set.Mode {
	case models.CategorySetKeep:
		return nil
	case models.CategorySetReplace:
		if _, err := tx.ExecContext(ctx, "DELETE FROM announcement_categories WHERE announcement_id = $1", announcementID); err != nil {
			return fmt.Errorf("detach categories: %w", err)
		}
	case models.CategorySetAttach:
	default:
		return fmt.Errorf("unknown category set mode %q", set.Mode)
	}

	if len(set.IDs) == 0 {
		return nil
	}
	const connect = `INSERT INTO announcement_categories (announcement_id, category_id)
SELECT $1, UNNEST($2::BIGINT[])`
	if _, err := tx.ExecContext(ctx, connect, announcementID, pq.Array(set.IDs)); err != nil {
		return fmt.Errorf("connect categories: %w", err)
	}
	return nil
}

type announcementCategoryRow struct {
	AnnouncementID int64 `db:"announcement_id"`
	models.Category
}

// attachCategories populates Categories for every row in a single query.
func (r *AnnouncementRepository) attachCategories(ctx context.Context, announcements []models.Announcement) error {
	for i := range announcements {
		announcements[i].Categories = []models.Category{}
	}
	if len(announcements) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(announcements))
	for _, a := range announcements {
		ids = append(ids, a.ID)
	}

	const query = `SELECT ac.announcement_id, c.id, c.name, c.display_name
FROM announcement_categories ac
JOIN categories c ON c.id = ac.category_id
WHERE ac.announcement_id = ANY($1)
ORDER BY c.id`
	var rows []announcementCategoryRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load announcement categories: %w", err)
	}

	byAnnouncement := make(map[int64][]models.Category, len(announcements))
	for _, row := range rows {
		byAnnouncement[row.AnnouncementID] = append(byAnnouncement[row.AnnouncementID], row.Category)
	}
	for i := range announcements {
		if categories, ok := byAnnouncement[announcements[i].ID]; ok {
			announcements[i].Categories = categories
		}
	}
	return nil
}
