// Package composer assembles read-only views across a session's stores:
// the student context handed to the model and the unified upcoming view.
package composer

import (
	"sort"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/session"
)

// RecentStudyDays is how far back the student context looks for study
// sessions.
const RecentStudyDays = 30

// StudentContext builds the academic snapshot: active courses, the knowledge
// base, and the last month of study sessions with their total time. A
// non-empty courseCode narrows the knowledge base to that course.
func StudentContext(h *session.Handle, courseCode string) (*core.StudentContext, error) {
	courses, err := h.Courses.List(core.CourseFilter{Status: core.CourseActive})
	if err != nil {
		return nil, err
	}

	knowledge, err := h.Study.ListKnowledge(courseCode, "")
	if err != nil {
		return nil, err
	}

	recent, err := h.Study.ListSessions(core.StudySessionFilter{LastNDays: RecentStudyDays})
	if err != nil {
		return nil, err
	}

	total := 0
	for _, s := range recent {
		total += s.DurationMinutes
	}

	return &core.StudentContext{
		Courses:        courses,
		Knowledge:      knowledge,
		RecentStudy:    recent,
		TotalStudyTime: total,
	}, nil
}

// FullContext is StudentContext plus profile and preferences.
func FullContext(h *session.Handle) (*core.FullContext, error) {
	ctx, err := StudentContext(h, "")
	if err != nil {
		return nil, err
	}

	profile, err := h.State.GetProfile()
	if err != nil {
		return nil, err
	}

	prefs, err := h.State.GetPreferences()
	if err != nil {
		return nil, err
	}

	return &core.FullContext{
		Profile:        profile,
		Preferences:    prefs,
		StudentContext: *ctx,
	}, nil
}

// Upcoming merges academic and professional tasks due within the window into
// one chronological list. Only pending academic tasks qualify; professional
// tasks carry whatever status they have. Within a date, higher priority
// sorts first.
func Upcoming(h *session.Handle, days int) ([]*core.UpcomingTask, error) {
	academic, err := h.Tasks.List(core.AcademicTaskFilter{
		Status:       core.StatusPending,
		UpcomingDays: days,
	})
	if err != nil {
		return nil, err
	}

	professional, err := h.Career.List(core.ProfessionalTaskFilter{UpcomingDays: days})
	if err != nil {
		return nil, err
	}

	var merged []*core.UpcomingTask
	for _, t := range academic {
		merged = append(merged, &core.UpcomingTask{
			Category:        core.CategoryAcademic,
			ID:              t.ID,
			Type:            t.Type,
			Title:           t.Title,
			Priority:        t.Priority,
			Status:          t.Status,
			DueDate:         t.DueDate,
			CourseCode:      t.CourseCode,
			CourseName:      t.CourseName,
			Description:     t.Description,
			Location:        t.Location,
			DurationMinutes: t.DurationMinutes,
		})
	}
	for _, t := range professional {
		merged = append(merged, &core.UpcomingTask{
			Category:     core.CategoryProfessional,
			ID:           t.ID,
			Type:         t.Type,
			Title:        t.Title,
			Priority:     t.Priority,
			Status:       t.Status,
			Deadline:     t.Deadline,
			CompanyOrg:   t.CompanyOrganization,
			PositionRole: t.PositionRole,
			Description:  t.Description,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		di, dj := merged[i].Date(), merged[j].Date()
		if di != dj {
			// Undated rows sort last.
			if di == "" {
				return false
			}
			if dj == "" {
				return true
			}
			return di < dj
		}
		return core.PriorityRank(merged[i].Priority) > core.PriorityRank(merged[j].Priority)
	})

	return merged, nil
}
