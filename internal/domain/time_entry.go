package domain

import "time"

// TimeEntry records time spent by a user on a task.
// A nil EndedAt means the timer is still running.
type TimeEntry struct {
	ID        string
	TaskID    string
	UserID    string
	StartedAt time.Time
	EndedAt   *time.Time
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration returns the elapsed time for a closed entry, zero while running.
func (e TimeEntry) Duration() time.Duration {
	if e.EndedAt == nil {
		return 0
	}
	return e.EndedAt.Sub(e.StartedAt)
}

// Running reports whether the entry is an open timer.
func (e TimeEntry) Running() bool {
	return e.EndedAt == nil
}
