package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/studypilot/studypilot/internal/core"
)

// TaskStore manages academic tasks.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates an academic task store.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// Columns a caller may touch through Update. Timestamps are stamped by the
// store itself and are not in the list.
var academicUpdatable = map[string]bool{
	"type":             true,
	"course_code":      true,
	"course_name":      true,
	"title":            true,
	"description":      true,
	"due_date":         true,
	"duration_minutes": true,
	"location":         true,
	"priority":         true,
	"status":           true,
	"grade":            true,
	"notes":            true,
	"tags":             true,
}

// Add inserts a new academic task. Type and title are required; priority
// defaults to medium and status to pending.
func (s *TaskStore) Add(task *core.AcademicTask) (*core.AcademicTask, error) {
	if task.Type == "" || task.Title == "" {
		return nil, fmt.Errorf("academic task needs type and title: %w", core.ErrMissingRequired)
	}

	if task.Priority == "" {
		task.Priority = core.PriorityMedium
	}
	if task.Status == "" {
		task.Status = core.StatusPending
	}

	now := nowISO()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := s.db.conn.QueryRow(`
		INSERT INTO academic_tasks (
			type, course_code, course_name, title, description, due_date,
			duration_minutes, location, priority, status, grade, notes, tags,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		task.Type, nullable(task.CourseCode), nullable(task.CourseName),
		task.Title, nullable(task.Description), nullable(task.DueDate),
		nullableInt(task.DurationMinutes), nullable(task.Location),
		task.Priority, task.Status, nullable(task.Grade),
		nullable(task.Notes), nullable(task.Tags), now, now,
	).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add academic task: %w", err)
	}

	return task, nil
}

// List returns tasks matching the filter, soonest due first. Undated tasks
// sort last; within a date, higher priority wins.
func (s *TaskStore) List(filter core.AcademicTaskFilter) ([]*core.AcademicTask, error) {
	query := `
		SELECT id, type, course_code, course_name, title, description, due_date,
		       duration_minutes, location, priority, status, grade, notes, tags,
		       created_at, updated_at, completed_at
		FROM academic_tasks WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.CourseCode != "" {
		query += " AND course_code = ?"
		args = append(args, filter.CourseCode)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.UpcomingDays > 0 {
		from, to := isoWindow(filter.UpcomingDays)
		query += " AND due_date >= ? AND due_date <= ?"
		args = append(args, from, to)
	}

	query += " ORDER BY due_date IS NULL, due_date ASC, " + priorityRankSQL + " DESC"

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list academic tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*core.AcademicTask
	for rows.Next() {
		t, err := scanAcademicTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Get returns one task by id, or ErrRecordNotFound.
func (s *TaskStore) Get(id int64) (*core.AcademicTask, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, type, course_code, course_name, title, description, due_date,
		       duration_minutes, location, priority, status, grade, notes, tags,
		       created_at, updated_at, completed_at
		FROM academic_tasks WHERE id = ?`, id)

	t, err := scanAcademicTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("academic task %d: %w", id, core.ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the given column updates to one task. Unknown columns are
// rejected before any write. updated_at is stamped on every call; moving to
// completed also stamps completed_at, and completed_at is never unset.
// A missing id is a silent no-op.
func (s *TaskStore) Update(id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !academicUpdatable[k] {
			return fmt.Errorf("academic task column %q: %w", k, core.ErrUnknownColumn)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sets []string
	var args []any
	for _, k := range keys {
		sets = append(sets, k+" = ?")
		args = append(args, updates[k])
	}

	now := nowISO()
	sets = append(sets, "updated_at = ?")
	args = append(args, now)

	if status, ok := updates["status"]; ok && status == core.StatusCompleted {
		sets = append(sets, "completed_at = ?")
		args = append(args, now)
	}

	args = append(args, id)
	query := "UPDATE academic_tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	if _, err := s.db.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update academic task %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAcademicTask(row rowScanner) (*core.AcademicTask, error) {
	var t core.AcademicTask
	var courseCode, courseName, description, dueDate, location sql.NullString
	var grade, notes, tags, completedAt sql.NullString
	var duration sql.NullInt64

	err := row.Scan(
		&t.ID, &t.Type, &courseCode, &courseName, &t.Title, &description,
		&dueDate, &duration, &location, &t.Priority, &t.Status, &grade,
		&notes, &tags, &t.CreatedAt, &t.UpdatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CourseCode = stringOf(courseCode)
	t.CourseName = stringOf(courseName)
	t.Description = stringOf(description)
	t.DueDate = stringOf(dueDate)
	t.DurationMinutes = intOf(duration)
	t.Location = stringOf(location)
	t.Grade = stringOf(grade)
	t.Notes = stringOf(notes)
	t.Tags = stringOf(tags)
	t.CompletedAt = stringOf(completedAt)

	return &t, nil
}
