package composer

import (
	"testing"
	"time"

	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/testutil"
)

func future(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(time.RFC3339)
}

func TestStudentContext(t *testing.T) {
	h := testutil.TestHandle(t)

	h.Courses.Add(&core.Course{CourseCode: "CS101", CourseName: "Intro"})
	h.Courses.Add(&core.Course{CourseCode: "OLD1", CourseName: "Done", Status: core.CourseCompleted})

	h.Study.LogSession(&core.StudySession{
		CourseCode:      "CS101",
		Topic:           "recursion",
		DurationMinutes: 45,
	})
	h.Study.LogSession(&core.StudySession{
		Topic:           "reading",
		DurationMinutes: 30,
	})

	ctx, err := StudentContext(h, "")
	if err != nil {
		t.Fatalf("StudentContext() error = %v", err)
	}

	if len(ctx.Courses) != 1 || ctx.Courses[0].CourseCode != "CS101" {
		t.Errorf("active courses = %d, want only CS101", len(ctx.Courses))
	}
	if len(ctx.Knowledge) != 1 {
		t.Errorf("knowledge entries = %d, want 1", len(ctx.Knowledge))
	}
	if len(ctx.RecentStudy) != 2 {
		t.Errorf("recent sessions = %d, want 2", len(ctx.RecentStudy))
	}
	if ctx.TotalStudyTime != 75 {
		t.Errorf("TotalStudyTime = %d, want 75", ctx.TotalStudyTime)
	}
}

func TestStudentContext_MonthOfStudy(t *testing.T) {
	h := testutil.TestHandle(t)

	h.Study.LogSession(&core.StudySession{
		Topic:           "graphs",
		DurationMinutes: 45,
		SessionDate:     time.Now().UTC().AddDate(0, 0, -10).Format(time.RFC3339),
	})
	h.Study.LogSession(&core.StudySession{
		Topic:           "old topic",
		DurationMinutes: 60,
		SessionDate:     time.Now().UTC().AddDate(0, 0, -40).Format(time.RFC3339),
	})

	ctx, err := StudentContext(h, "")
	if err != nil {
		t.Fatalf("StudentContext() error = %v", err)
	}

	if len(ctx.RecentStudy) != 1 || ctx.RecentStudy[0].Topic != "graphs" {
		t.Fatalf("recent sessions = %d, want only the 10-day-old one", len(ctx.RecentStudy))
	}
	if ctx.TotalStudyTime != 45 {
		t.Errorf("TotalStudyTime = %d, want 45", ctx.TotalStudyTime)
	}
}

func TestStudentContext_CourseFilter(t *testing.T) {
	h := testutil.TestHandle(t)

	h.Study.LogSession(&core.StudySession{CourseCode: "CS101", Topic: "recursion"})
	h.Study.LogSession(&core.StudySession{CourseCode: "MA201", Topic: "integrals"})

	ctx, err := StudentContext(h, "CS101")
	if err != nil {
		t.Fatalf("StudentContext() error = %v", err)
	}

	if len(ctx.Knowledge) != 1 || ctx.Knowledge[0].CourseCode != "CS101" {
		t.Fatalf("knowledge = %d entries, want only CS101", len(ctx.Knowledge))
	}
}

func TestFullContext(t *testing.T) {
	h := testutil.TestHandle(t)

	name := "Ada"
	if _, err := h.State.UpdateProfile(core.ProfileUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	ctx, err := FullContext(h)
	if err != nil {
		t.Fatalf("FullContext() error = %v", err)
	}

	if ctx.Profile == nil || ctx.Profile.Name == nil || *ctx.Profile.Name != "Ada" {
		t.Error("full context should carry the profile")
	}
	if ctx.Preferences == nil || ctx.Preferences.Theme != "light" {
		t.Error("full context should carry defaulted preferences")
	}
}

func TestUpcoming_MergeAndOrder(t *testing.T) {
	h := testutil.TestHandle(t)

	h.Tasks.Add(&core.AcademicTask{
		Type: core.AcademicExam, Title: "exam", DueDate: future(3),
	})
	h.Career.Add(&core.ProfessionalTask{
		Type: core.ProfessionalInterview, Title: "interview", Deadline: future(1),
	})
	h.Career.Add(&core.ProfessionalTask{
		Type: core.ProfessionalApplication, Title: "same-day urgent",
		Deadline: future(3), Priority: core.PriorityUrgent,
	})

	tasks, err := Upcoming(h, 7)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}

	want := []string{"interview", "same-day urgent", "exam"}
	if len(titles) != len(want) {
		t.Fatalf("Upcoming() = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("Upcoming() = %v, want %v", titles, want)
		}
	}
}

func TestUpcoming_StatusFilters(t *testing.T) {
	h := testutil.TestHandle(t)

	// Academic side: only pending tasks qualify.
	started, _ := h.Tasks.Add(&core.AcademicTask{
		Type: core.AcademicQuiz, Title: "started quiz", DueDate: future(3),
	})
	h.Tasks.Update(started.ID, map[string]any{"status": core.StatusInProgress})
	h.Tasks.Add(&core.AcademicTask{
		Type: core.AcademicLab, Title: "pending lab", DueDate: future(2),
	})

	// Professional side: every status qualifies, terminal ones included.
	rejected, _ := h.Career.Add(&core.ProfessionalTask{
		Type: core.ProfessionalApplication, Title: "rejected app", Deadline: future(2),
	})
	h.Career.Update(rejected.ID, map[string]any{"status": core.StatusRejected})

	tasks, err := Upcoming(h, 7)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}

	titles := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		titles[task.Title] = true
	}

	if titles["started quiz"] {
		t.Error("in_progress academic task leaked into the upcoming view")
	}
	if !titles["pending lab"] {
		t.Error("pending academic task missing from the upcoming view")
	}
	if !titles["rejected app"] {
		t.Error("rejected professional task missing from the upcoming view")
	}
}

func TestUpcoming_WindowExcludesFar(t *testing.T) {
	h := testutil.TestHandle(t)

	h.Tasks.Add(&core.AcademicTask{Type: core.AcademicExam, Title: "near", DueDate: future(2)})
	h.Tasks.Add(&core.AcademicTask{Type: core.AcademicExam, Title: "far", DueDate: future(60)})

	tasks, err := Upcoming(h, 7)
	if err != nil {
		t.Fatalf("Upcoming() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "near" {
		t.Errorf("window leaked: got %d tasks", len(tasks))
	}
}
