package models

// Team is a participating team. Labels drive alphanumeric ordering.
type Team struct {
	ID    int64  `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

// Room is a physical room that hosts consecutive slots.
type Room struct {
	ID    int64  `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

// Jury is an evaluator assigned to rooms.
type Jury struct {
	ID    int64  `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}
