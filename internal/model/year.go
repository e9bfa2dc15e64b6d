package model

import "time"

// Year mirrors the `years` table of the settings module.  Exactly one
// row carries the is_current flag; dashboards make sure a row exists
// for the running calendar year.
type Year struct {
	ID        uint64
	Year      int
	IsCurrent bool
	CreatedAt time.Time
}
