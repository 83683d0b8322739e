package models

import "time"

// Announcement represents a persisted announcement row with its categories.
type Announcement struct {
	ID              int64      `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Content         string     `db:"content" json:"content"`
	PublicationDate time.Time  `db:"publication_date" json:"publicationDate"`
	LastUpdate      time.Time  `db:"last_update" json:"lastUpdate"`
	Categories      []Category `db:"-" json:"categories"`
}

// AnnouncementFilter narrows a listing. Zero-value fields add no predicate.
type AnnouncementFilter struct {
	Search      string
	CategoryIDs []int64
}

// CategorySetMode selects how category relations are reconciled.
type CategorySetMode string

const (
	// CategorySetKeep leaves the existing relation set untouched.
	CategorySetKeep CategorySetMode = "KEEP"
	// CategorySetAttach adds relations for the given ids (create path).
	CategorySetAttach CategorySetMode = "ATTACH"
	// CategorySetReplace overwrites the relation set with exactly the given
	// ids; members absent from the list are detached.
	CategorySetReplace CategorySetMode = "REPLACE"
)

// CategorySet is the reconciliation directive applied by the storage layer.
type CategorySet struct {
	Mode CategorySetMode
	IDs  []int64
}

// KeepCategories returns a directive that leaves relations unchanged.
func KeepCategories() CategorySet {
	return CategorySet{Mode: CategorySetKeep}
}

// AttachCategories returns a directive that connects the given ids.
func AttachCategories(ids []int64) CategorySet {
	return CategorySet{Mode: CategorySetAttach, IDs: ids}
}

// ReplaceCategories returns a directive that sets relations to exactly ids.
func ReplaceCategories(ids []int64) CategorySet {
	return CategorySet{Mode: CategorySetReplace, IDs: ids}
}

// AnnouncementUpdate carries a partial update. Nil fields are unchanged.
type AnnouncementUpdate struct {
	Title           *string
	Content         *string
	PublicationDate *time.Time
	Categories      CategorySet
}
