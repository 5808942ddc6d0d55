package model

import "time"

// RowStatus marks soft-deleted rows.
type RowStatus string

const (
	Normal   RowStatus = "NORMAL"
	Archived RowStatus = "ARCHIVED"
)

func (r RowStatus) String() string {
	return string(r)
}

// DateLayout is how calendar dates are stored and exchanged.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date at UTC midnight.
// Due dates and "today" are always compared in this form.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

type MigrationHistory struct {
	Version   string
	CreatedTs int64
}
