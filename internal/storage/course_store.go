package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/studypilot/studypilot/internal/core"
)

// CourseStore manages the per-session course catalog.
type CourseStore struct {
	db *DB
}

// NewCourseStore creates a course store.
func NewCourseStore(db *DB) *CourseStore {
	return &CourseStore{db: db}
}

// Add inserts a new course. Course code and name are required; the code is
// unique within the session.
func (s *CourseStore) Add(course *core.Course) (*core.Course, error) {
	if course.CourseCode == "" || course.CourseName == "" {
		return nil, fmt.Errorf("course needs course_code and course_name: %w", core.ErrMissingRequired)
	}

	if course.Status == "" {
		course.Status = core.CourseActive
	}

	now := nowISO()
	course.CreatedAt = now
	course.UpdatedAt = now

	err := s.db.conn.QueryRow(`
		INSERT INTO courses (
			course_code, course_name, instructor, semester, credits, status,
			final_grade, description, topics_covered, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		course.CourseCode, course.CourseName, nullable(course.Instructor),
		nullable(course.Semester), nullableInt(course.Credits), course.Status,
		nullable(course.FinalGrade), nullable(course.Description),
		nullable(course.TopicsCovered), now, now,
	).Scan(&course.ID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("course %s: %w", course.CourseCode, core.ErrDuplicateRecord)
		}
		return nil, fmt.Errorf("failed to add course: %w", err)
	}

	return course, nil
}

// List returns courses matching the filter, newest first.
func (s *CourseStore) List(filter core.CourseFilter) ([]*core.Course, error) {
	query := `
		SELECT id, course_code, course_name, instructor, semester, credits,
		       status, final_grade, description, topics_covered, created_at, updated_at
		FROM courses WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Semester != "" {
		query += " AND semester = ?"
		args = append(args, filter.Semester)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []*core.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// GetByCode returns one course by its code, or ErrRecordNotFound.
func (s *CourseStore) GetByCode(code string) (*core.Course, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, course_code, course_name, instructor, semester, credits,
		       status, final_grade, description, topics_covered, created_at, updated_at
		FROM courses WHERE course_code = ?`, code)

	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("course %s: %w", code, core.ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanCourse(row rowScanner) (*core.Course, error) {
	var c core.Course
	var instructor, semester, finalGrade, description, topics sql.NullString
	var credits sql.NullInt64

	err := row.Scan(
		&c.ID, &c.CourseCode, &c.CourseName, &instructor, &semester,
		&credits, &c.Status, &finalGrade, &description, &topics,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Instructor = stringOf(instructor)
	c.Semester = stringOf(semester)
	c.Credits = intOf(credits)
	c.FinalGrade = stringOf(finalGrade)
	c.Description = stringOf(description)
	c.TopicsCovered = stringOf(topics)

	return &c, nil
}
