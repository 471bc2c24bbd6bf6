package models

// EntryFilter selects entries of one owner. Nil fields impose no constraint.
type EntryFilter struct {
	UserID      int64
	Description *string // case-insensitive substring
	Month       *int
	Year        *int
	Type        *EntryType
	Status      *EntryStatus
}
