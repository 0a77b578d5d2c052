package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studypilot/studypilot/internal/core"
)

// StudyStore manages study sessions and the derived knowledge base.
type StudyStore struct {
	db *DB
}

// NewStudyStore creates a study store.
func NewStudyStore(db *DB) *StudyStore {
	return &StudyStore{db: db}
}

// LogSession records one study session. Topic is required. When the session
// names a course as well, the knowledge base row for (course, topic) is
// upserted in the same call: understanding level maps onto proficiency and
// key concepts onto notes, each only when supplied.
func (s *StudyStore) LogSession(session *core.StudySession) (*core.StudySession, error) {
	if session.Topic == "" {
		return nil, fmt.Errorf("study session needs topic: %w", core.ErrMissingRequired)
	}

	now := nowISO()
	if session.SessionDate == "" {
		session.SessionDate = now
	}
	session.CreatedAt = now

	var keyConcepts any
	if session.KeyConcepts != nil {
		keyConcepts = *session.KeyConcepts
	}

	err := s.db.conn.QueryRow(`
		INSERT INTO study_sessions (
			course_code, topic, subtopics, duration_minutes, session_type,
			understanding_level, key_concepts, questions_raised, notes,
			session_date, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		nullable(session.CourseCode), session.Topic, nullable(session.Subtopics),
		nullableInt(session.DurationMinutes), nullable(session.SessionType),
		nullable(session.UnderstandingLevel), keyConcepts,
		nullable(session.QuestionsRaised), nullable(session.Notes),
		session.SessionDate, now,
	).Scan(&session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to log study session: %w", err)
	}

	if session.CourseCode != "" {
		var proficiency *string
		if session.UnderstandingLevel != "" {
			p := proficiencyFromUnderstanding(session.UnderstandingLevel)
			proficiency = &p
		}
		if err := s.UpsertKnowledge(session.CourseCode, session.Topic, proficiency, session.KeyConcepts); err != nil {
			return nil, err
		}
	}

	return session, nil
}

// proficiencyFromUnderstanding maps a self-reported understanding level onto
// the proficiency scale tracked per topic.
func proficiencyFromUnderstanding(level string) string {
	switch level {
	case core.UnderstandingStruggling:
		return core.ProficiencyBeginner
	case core.UnderstandingPartial:
		return core.ProficiencyIntermediate
	case core.UnderstandingGood:
		return core.ProficiencyAdvanced
	case core.UnderstandingExcellent:
		return core.ProficiencyExpert
	default:
		return core.ProficiencyBeginner
	}
}

// UpsertKnowledge creates or refreshes the knowledge row for (course, topic).
// Every call bumps study_count and last_studied. Proficiency and notes
// overwrite only when non-nil; a supplied empty string still overwrites.
func (s *StudyStore) UpsertKnowledge(courseCode, topic string, proficiency, notes *string) error {
	now := nowISO()

	return s.db.Transaction(func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRow(`
			SELECT id FROM knowledge_base
			WHERE course_code = ? AND topic = ? AND subtopic = ''
		`, courseCode, topic).Scan(&id)

		if err == sql.ErrNoRows {
			level := core.ProficiencyBeginner
			if proficiency != nil {
				level = *proficiency
			}
			var noteVal any
			if notes != nil {
				noteVal = *notes
			}
			_, err := tx.Exec(`
				INSERT INTO knowledge_base (
					course_code, topic, subtopic, proficiency_level,
					last_studied, study_count, notes, created_at, updated_at
				) VALUES (?, ?, '', ?, ?, 1, ?, ?, ?)
			`, courseCode, topic, level, now, noteVal, now, now)
			if err != nil {
				return fmt.Errorf("failed to insert knowledge entry: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read knowledge entry: %w", err)
		}

		query := "UPDATE knowledge_base SET study_count = study_count + 1, last_studied = ?, updated_at = ?"
		args := []any{now, now}
		if proficiency != nil {
			query += ", proficiency_level = ?"
			args = append(args, *proficiency)
		}
		if notes != nil {
			query += ", notes = ?"
			args = append(args, *notes)
		}
		query += " WHERE id = ?"
		args = append(args, id)

		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to update knowledge entry: %w", err)
		}
		return nil
	})
}

// ListSessions returns study sessions matching the filter, newest first.
// The topic filter is a substring match.
func (s *StudyStore) ListSessions(filter core.StudySessionFilter) ([]*core.StudySession, error) {
	query := `
		SELECT id, course_code, topic, subtopics, duration_minutes, session_type,
		       understanding_level, key_concepts, questions_raised, notes,
		       session_date, created_at
		FROM study_sessions WHERE 1=1`
	var args []any

	if filter.CourseCode != "" {
		query += " AND course_code = ?"
		args = append(args, filter.CourseCode)
	}
	if filter.Topic != "" {
		query += " AND topic LIKE ?"
		args = append(args, "%"+filter.Topic+"%")
	}
	if filter.LastNDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -filter.LastNDays).Format(time.RFC3339)
		query += " AND session_date >= ?"
		args = append(args, cutoff)
	}

	query += " ORDER BY session_date DESC"

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*core.StudySession
	for rows.Next() {
		var sess core.StudySession
		var courseCode, subtopics, sessionType, understanding sql.NullString
		var keyConcepts, questions, notes sql.NullString
		var duration sql.NullInt64

		err := rows.Scan(
			&sess.ID, &courseCode, &sess.Topic, &subtopics, &duration,
			&sessionType, &understanding, &keyConcepts, &questions, &notes,
			&sess.SessionDate, &sess.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		sess.CourseCode = stringOf(courseCode)
		sess.Subtopics = stringOf(subtopics)
		sess.DurationMinutes = intOf(duration)
		sess.SessionType = stringOf(sessionType)
		sess.UnderstandingLevel = stringOf(understanding)
		if keyConcepts.Valid {
			sess.KeyConcepts = &keyConcepts.String
		}
		sess.QuestionsRaised = stringOf(questions)
		sess.Notes = stringOf(notes)

		sessions = append(sessions, &sess)
	}

	return sessions, rows.Err()
}

// ListKnowledge returns knowledge entries, most recently studied first.
// The topic filter is a substring match.
func (s *StudyStore) ListKnowledge(courseCode, topic string) ([]*core.KnowledgeEntry, error) {
	query := `
		SELECT id, course_code, topic, subtopic, proficiency_level, last_studied,
		       study_count, notes, related_topics, created_at, updated_at
		FROM knowledge_base WHERE 1=1`
	var args []any

	if courseCode != "" {
		query += " AND course_code = ?"
		args = append(args, courseCode)
	}
	if topic != "" {
		query += " AND topic LIKE ?"
		args = append(args, "%"+topic+"%")
	}

	query += " ORDER BY last_studied DESC"

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge entries: %w", err)
	}
	defer rows.Close()

	var entries []*core.KnowledgeEntry
	for rows.Next() {
		var e core.KnowledgeEntry
		var subtopic, lastStudied, notes, related sql.NullString

		err := rows.Scan(
			&e.ID, &e.CourseCode, &e.Topic, &subtopic, &e.ProficiencyLevel,
			&lastStudied, &e.StudyCount, &notes, &related,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		e.Subtopic = stringOf(subtopic)
		e.LastStudied = stringOf(lastStudied)
		e.Notes = stringOf(notes)
		e.RelatedTopics = stringOf(related)

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
