package models

// Category is a named label attachable to announcements, many-to-many.
// Name is unique across the system; DisplayName is the only mutable field.
type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	DisplayName string `db:"display_name" json:"displayName"`
}
