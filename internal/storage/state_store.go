package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/studypilot/studypilot/internal/core"
)

// StateStore manages the key-value state region: profile scalars and
// preferences. Keys are flat strings; values are stored as text.
type StateStore struct {
	db *DB
}

// NewStateStore creates a state store.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// State keys for the profile region.
const (
	keyUserName         = "user_name"
	keyUserMajor        = "user_major"
	keyUserYear         = "user_year"
	keyUserUniversity   = "user_university"
	keyUserGPA          = "user_gpa"
	keyUserTimezone     = "user_timezone"
	keyStudyGoalHours   = "study_goal_hours_per_week"
	keyProfileUpdatedAt = "profile_updated_at"
)

// State keys for the preferences region.
const (
	keyPrefTheme           = "pref_theme"
	keyPrefNotifications   = "pref_notifications"
	keyPrefReminderTime    = "pref_reminder_time"
	keyPrefDefaultPriority = "pref_default_priority"
)

func (s *StateStore) get(key string) (string, bool, error) {
	var value string
	err := s.db.conn.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read state key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *StateStore) setTx(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write state key %s: %w", key, err)
	}
	return nil
}

// GetProfile reads the profile. Unset fields come back nil; timezone defaults
// to UTC.
func (s *StateStore) GetProfile() (*core.Profile, error) {
	p := &core.Profile{Timezone: "UTC"}

	read := func(key string, dst **string) error {
		v, ok, err := s.get(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = &v
		}
		return nil
	}

	if err := read(keyUserName, &p.Name); err != nil {
		return nil, err
	}
	if err := read(keyUserMajor, &p.Major); err != nil {
		return nil, err
	}
	if err := read(keyUserYear, &p.Year); err != nil {
		return nil, err
	}
	if err := read(keyUserUniversity, &p.University); err != nil {
		return nil, err
	}
	if err := read(keyProfileUpdatedAt, &p.ProfileUpdatedAt); err != nil {
		return nil, err
	}

	if v, ok, err := s.get(keyUserTimezone); err != nil {
		return nil, err
	} else if ok {
		p.Timezone = v
	}

	if v, ok, err := s.get(keyUserGPA); err != nil {
		return nil, err
	} else if ok {
		if gpa, perr := strconv.ParseFloat(v, 64); perr == nil {
			p.GPA = &gpa
		}
	}

	if v, ok, err := s.get(keyStudyGoalHours); err != nil {
		return nil, err
	} else if ok {
		if hours, perr := strconv.ParseFloat(v, 64); perr == nil {
			p.StudyGoalHoursPerWeek = &hours
		}
	}

	return p, nil
}

// UpdateProfile merges the supplied fields into the profile. Supplied fields
// overwrite, absent fields survive. An empty update writes nothing, not even
// the updated-at stamp.
func (s *StateStore) UpdateProfile(update core.ProfileUpdate) (*core.Profile, error) {
	if update.Empty() {
		return s.GetProfile()
	}

	now := time.Now().UTC().Format(time.RFC3339)

	err := s.db.Transaction(func(tx *sql.Tx) error {
		set := func(key string, v *string) error {
			if v == nil {
				return nil
			}
			return s.setTx(tx, key, *v)
		}

		if err := set(keyUserName, update.Name); err != nil {
			return err
		}
		if err := set(keyUserMajor, update.Major); err != nil {
			return err
		}
		if err := set(keyUserYear, update.Year); err != nil {
			return err
		}
		if err := set(keyUserUniversity, update.University); err != nil {
			return err
		}
		if err := set(keyUserTimezone, update.Timezone); err != nil {
			return err
		}
		if update.GPA != nil {
			if err := s.setTx(tx, keyUserGPA, strconv.FormatFloat(*update.GPA, 'f', -1, 64)); err != nil {
				return err
			}
		}
		if update.StudyGoalHoursPerWeek != nil {
			if err := s.setTx(tx, keyStudyGoalHours, strconv.FormatFloat(*update.StudyGoalHoursPerWeek, 'f', -1, 64)); err != nil {
				return err
			}
		}

		return s.setTx(tx, keyProfileUpdatedAt, now)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProfile()
}

// GetPreferences reads preferences with defaults applied.
func (s *StateStore) GetPreferences() (*core.Preferences, error) {
	p := &core.Preferences{
		Theme:                "light",
		NotificationsEnabled: true,
		ReminderTime:         "20:00",
		DefaultPriority:      core.PriorityMedium,
	}

	if v, ok, err := s.get(keyPrefTheme); err != nil {
		return nil, err
	} else if ok {
		p.Theme = v
	}
	if v, ok, err := s.get(keyPrefNotifications); err != nil {
		return nil, err
	} else if ok {
		p.NotificationsEnabled = v == "true"
	}
	if v, ok, err := s.get(keyPrefReminderTime); err != nil {
		return nil, err
	} else if ok {
		p.ReminderTime = v
	}
	if v, ok, err := s.get(keyPrefDefaultPriority); err != nil {
		return nil, err
	} else if ok {
		p.DefaultPriority = v
	}

	return p, nil
}

// UpdatePreferences merges the supplied fields into preferences.
func (s *StateStore) UpdatePreferences(update core.PreferencesUpdate) (*core.Preferences, error) {
	if update.Empty() {
		return s.GetPreferences()
	}

	err := s.db.Transaction(func(tx *sql.Tx) error {
		if update.Theme != nil {
			if err := s.setTx(tx, keyPrefTheme, *update.Theme); err != nil {
				return err
			}
		}
		if update.NotificationsEnabled != nil {
			if err := s.setTx(tx, keyPrefNotifications, strconv.FormatBool(*update.NotificationsEnabled)); err != nil {
				return err
			}
		}
		if update.ReminderTime != nil {
			if err := s.setTx(tx, keyPrefReminderTime, *update.ReminderTime); err != nil {
				return err
			}
		}
		if update.DefaultPriority != nil {
			if err := s.setTx(tx, keyPrefDefaultPriority, *update.DefaultPriority); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPreferences()
}
