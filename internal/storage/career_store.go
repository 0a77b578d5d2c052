package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/studypilot/studypilot/internal/core"
)

// CareerStore manages professional tasks: applications, certifications,
// interviews, networking events, and deadlines.
type CareerStore struct {
	db *DB
}

// NewCareerStore creates a professional task store.
func NewCareerStore(db *DB) *CareerStore {
	return &CareerStore{db: db}
}

var professionalUpdatable = map[string]bool{
	"type":                 true,
	"title":                true,
	"company_organization": true,
	"position_role":        true,
	"description":          true,
	"deadline":             true,
	"status":               true,
	"priority":             true,
	"application_url":      true,
	"contact_info":         true,
	"salary_compensation":  true,
	"notes":                true,
	"tags":                 true,
}

// Add inserts a new professional task. Type and title are required; priority
// defaults to medium and status to not_started.
func (s *CareerStore) Add(task *core.ProfessionalTask) (*core.ProfessionalTask, error) {
	if task.Type == "" || task.Title == "" {
		return nil, fmt.Errorf("professional task needs type and title: %w", core.ErrMissingRequired)
	}

	if task.Priority == "" {
		task.Priority = core.PriorityMedium
	}
	if task.Status == "" {
		task.Status = core.StatusNotStarted
	}

	now := nowISO()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := s.db.conn.QueryRow(`
		INSERT INTO professional_tasks (
			type, title, company_organization, position_role, description,
			deadline, status, priority, application_url, contact_info,
			salary_compensation, notes, tags, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		task.Type, task.Title, nullable(task.CompanyOrganization),
		nullable(task.PositionRole), nullable(task.Description),
		nullable(task.Deadline), task.Status, task.Priority,
		nullable(task.ApplicationURL), nullable(task.ContactInfo),
		nullable(task.SalaryCompensation), nullable(task.Notes),
		nullable(task.Tags), now, now,
	).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add professional task: %w", err)
	}

	return task, nil
}

// List returns tasks matching the filter, soonest deadline first. Undated
// tasks sort last; within a date, higher priority wins. The organization
// filter is a substring match.
func (s *CareerStore) List(filter core.ProfessionalTaskFilter) ([]*core.ProfessionalTask, error) {
	query := `
		SELECT id, type, title, company_organization, position_role, description,
		       deadline, status, priority, application_url, contact_info,
		       salary_compensation, notes, tags, created_at, updated_at, completed_at
		FROM professional_tasks WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Type != "" {
		query += " AND type = ?"
		args = append(args, filter.Type)
	}
	if filter.CompanyOrganization != "" {
		query += " AND company_organization LIKE ?"
		args = append(args, "%"+filter.CompanyOrganization+"%")
	}
	if filter.UpcomingDays > 0 {
		from, to := isoWindow(filter.UpcomingDays)
		query += " AND deadline >= ? AND deadline <= ?"
		args = append(args, from, to)
	}

	query += " ORDER BY deadline IS NULL, deadline ASC, " + priorityRankSQL + " DESC"

	rows, err := s.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list professional tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*core.ProfessionalTask
	for rows.Next() {
		t, err := scanProfessionalTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Get returns one task by id, or ErrRecordNotFound.
func (s *CareerStore) Get(id int64) (*core.ProfessionalTask, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, type, title, company_organization, position_role, description,
		       deadline, status, priority, application_url, contact_info,
		       salary_compensation, notes, tags, created_at, updated_at, completed_at
		FROM professional_tasks WHERE id = ?`, id)

	t, err := scanProfessionalTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("professional task %d: %w", id, core.ErrRecordNotFound)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the given column updates to one task. Moving to a terminal
// status (accepted, rejected, completed) stamps completed_at; it is never
// unset afterward. A missing id is a silent no-op.
func (s *CareerStore) Update(id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !professionalUpdatable[k] {
			return fmt.Errorf("professional task column %q: %w", k, core.ErrUnknownColumn)
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

	if status, ok := updates["status"].(string); ok && core.IsProfessionalTerminal(status) {
		sets = append(sets, "completed_at = ?")
		args = append(args, now)
	}

	args = append(args, id)
	query := "UPDATE professional_tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"

	if _, err := s.db.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update professional task %d: %w", id, err)
	}
	return nil
}

func scanProfessionalTask(row rowScanner) (*core.ProfessionalTask, error) {
	var t core.ProfessionalTask
	var company, position, description, deadline sql.NullString
	var appURL, contact, salary, notes, tags, completedAt sql.NullString

	err := row.Scan(
		&t.ID, &t.Type, &t.Title, &company, &position, &description,
		&deadline, &t.Status, &t.Priority, &appURL, &contact, &salary,
		&notes, &tags, &t.CreatedAt, &t.UpdatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CompanyOrganization = stringOf(company)
	t.PositionRole = stringOf(position)
	t.Description = stringOf(description)
	t.Deadline = stringOf(deadline)
	t.ApplicationURL = stringOf(appURL)
	t.ContactInfo = stringOf(contact)
	t.SalaryCompensation = stringOf(salary)
	t.Notes = stringOf(notes)
	t.Tags = stringOf(tags)
	t.CompletedAt = stringOf(completedAt)

	return &t, nil
}
