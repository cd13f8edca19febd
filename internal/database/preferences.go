package database

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Preferences are the player settings kept per user.
type Preferences struct {
	Username      string    `json:"-"`
	Volume        float64   `json:"volume"`
	Looping       bool      `json:"looping"`
	SortField     string    `json:"sortField"`
	SortDirection string    `json:"sortDirection"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// GetPreferences returns the saved preferences for username, or nil if the
// user never saved any.
func (d *Database) GetPreferences(ctx context.Context, username string) (prefs *Preferences, err error) {
	start := time.Now()
	defer func() { recordQuery("get_preferences", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	p := Preferences{Username: username}
	var looping int
	var updatedAt int64
	err = d.db.QueryRowContext(ctx, `
		SELECT volume, looping, sort_field, sort_direction, updated_at
		FROM preferences WHERE username = ?`,
		username,
	).Scan(&p.Volume, &looping, &p.SortField, &p.SortDirection, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Looping = looping != 0
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// SavePreferences inserts or replaces the preferences of p.Username.
func (d *Database) SavePreferences(ctx context.Context, p Preferences) (err error) {
	start := time.Now()
	defer func() { recordQuery("save_preferences", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	looping := 0
	if p.Looping {
		looping = 1
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO preferences (username, volume, looping, sort_field, sort_direction, updated_at)
		VALUES (?, ?, ?, ?, ?, strftime('%s', 'now'))
		ON CONFLICT(username) DO UPDATE SET
			volume = excluded.volume,
			looping = excluded.looping,
			sort_field = excluded.sort_field,
			sort_direction = excluded.sort_direction,
			updated_at = excluded.updated_at`,
		p.Username, p.Volume, looping, p.SortField, p.SortDirection,
	)
	return err
}
