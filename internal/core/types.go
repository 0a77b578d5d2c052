// Package core defines the fundamental types for StudyPilot.
package core

// -----------------------------------------------------------------------------
// SESSION - The isolation boundary
// -----------------------------------------------------------------------------

// SessionID is the opaque client-chosen token that scopes all persisted state.
// Whoever holds the token owns the data; there is no further authentication.
type SessionID string

// DefaultSession is used when a request carries no session token.
const DefaultSession SessionID = "default-user"

// -----------------------------------------------------------------------------
// PROFILE & PREFERENCES - Key-value state
// -----------------------------------------------------------------------------

// Year in school.
const (
	YearFreshman  = "freshman"
	YearSophomore = "sophomore"
	YearJunior    = "junior"
	YearSenior    = "senior"
	YearGraduate  = "graduate"
)

// Profile holds the student's profile scalars. Every field is independently
// nullable; absent fields are omitted from JSON the way the original
// key-value region omitted unset keys.
type Profile struct {
	Name                  *string  `json:"name,omitempty"`
	Major                 *string  `json:"major,omitempty"`
	Year                  *string  `json:"year,omitempty"` // freshman..graduate
	University            *string  `json:"university,omitempty"`
	GPA                   *float64 `json:"gpa,omitempty"` // 0.0-4.0 expected, unvalidated
	Timezone              string   `json:"timezone"`      // defaulted to "UTC" on read
	StudyGoalHoursPerWeek *float64 `json:"study_goal_hours_per_week,omitempty"`
	ProfileUpdatedAt      *string  `json:"profile_updated_at,omitempty"`
}

// ProfileUpdate is a partial profile merge. Nil fields are left untouched.
type ProfileUpdate struct {
	Name                  *string  `json:"name,omitempty"`
	Major                 *string  `json:"major,omitempty"`
	Year                  *string  `json:"year,omitempty"`
	University            *string  `json:"university,omitempty"`
	GPA                   *float64 `json:"gpa,omitempty"`
	Timezone              *string  `json:"timezone,omitempty"`
	StudyGoalHoursPerWeek *float64 `json:"study_goal_hours_per_week,omitempty"`
}

// Empty reports whether the merge set carries no fields at all.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Major == nil && u.Year == nil &&
		u.University == nil && u.GPA == nil && u.Timezone == nil &&
		u.StudyGoalHoursPerWeek == nil
}

// Preferences holds user preferences, with defaults applied on read.
type Preferences struct {
	Theme                string `json:"theme"`                 // "light" or "dark", default light
	NotificationsEnabled bool   `json:"notifications_enabled"` // default true
	ReminderTime         string `json:"reminder_time"`         // HH:MM, default "20:00"
	DefaultPriority      string `json:"default_priority"`      // default "medium"
}

// PreferencesUpdate is a partial preferences merge.
type PreferencesUpdate struct {
	Theme                *string `json:"theme,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
	ReminderTime         *string `json:"reminder_time,omitempty"`
	DefaultPriority      *string `json:"default_priority,omitempty"`
}

// Empty reports whether the merge set carries no fields at all.
func (u PreferencesUpdate) Empty() bool {
	return u.Theme == nil && u.NotificationsEnabled == nil &&
		u.ReminderTime == nil && u.DefaultPriority == nil
}

// -----------------------------------------------------------------------------
// PRIORITY - Explicit severity ranking
// -----------------------------------------------------------------------------

// Task priority levels.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// PriorityRank maps priority names to their severity. Lexical ordering of the
// enum ("high" < "low" < "medium" < "urgent") does not reflect severity, so
// all sorting goes through this table instead of string comparison.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return -1
	}
}

// -----------------------------------------------------------------------------
// ACADEMIC TASKS
// -----------------------------------------------------------------------------

// Academic task types.
const (
	AcademicLecture    = "lecture"
	AcademicQuiz       = "quiz"
	AcademicExam       = "exam"
	AcademicLab        = "lab"
	AcademicAssignment = "assignment"
	AcademicSelfStudy  = "selfstudy"
	AcademicDeadline   = "deadline"
)

// Academic task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// AcademicTask is a single academic obligation: a lecture, quiz, exam, lab,
// assignment, self-study block, or bare deadline.
type AcademicTask struct {
	ID              int64  `json:"id"`
	Type            string `json:"type"`
	CourseCode      string `json:"course_code,omitempty"`
	CourseName      string `json:"course_name,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DueDate         string `json:"due_date,omitempty"` // ISO-8601, advisory
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Location        string `json:"location,omitempty"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	Grade           string `json:"grade,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Tags            string `json:"tags,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	CompletedAt     string `json:"completed_at,omitempty"`
}

// AcademicTaskFilter is a conjunctive filter; zero values impose no constraint.
type AcademicTaskFilter struct {
	Status       string `json:"status,omitempty"`
	CourseCode   string `json:"course_code,omitempty"`
	Type         string `json:"type,omitempty"`
	UpcomingDays int    `json:"upcoming_days,omitempty"` // due within [now, now+N days]
}

// -----------------------------------------------------------------------------
// PROFESSIONAL TASKS
// -----------------------------------------------------------------------------

// Professional task types.
const (
	ProfessionalApplication   = "application"
	ProfessionalCourse        = "course"
	ProfessionalCertification = "certification"
	ProfessionalInterview     = "interview"
	ProfessionalNetworking    = "networking"
	ProfessionalDeadline      = "deadline"
)

// Professional task statuses.
const (
	StatusNotStarted   = "not_started"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusAccepted     = "accepted"
	StatusRejected     = "rejected"
)

// IsProfessionalTerminal reports whether a professional status stamps
// completed_at: accepted, rejected, or completed.
func IsProfessionalTerminal(status string) bool {
	return status == StatusAccepted || status == StatusRejected || status == StatusCompleted
}

// ProfessionalTask is a career item: application, certification, interview,
// networking event, online course, or deadline.
type ProfessionalTask struct {
	ID                  int64  `json:"id"`
	Type                string `json:"type"`
	Title               string `json:"title"`
	CompanyOrganization string `json:"company_organization,omitempty"`
	PositionRole        string `json:"position_role,omitempty"`
	Description         string `json:"description,omitempty"`
	Deadline            string `json:"deadline,omitempty"`
	Status              string `json:"status"`
	Priority            string `json:"priority"`
	ApplicationURL      string `json:"application_url,omitempty"`
	ContactInfo         string `json:"contact_info,omitempty"`
	SalaryCompensation  string `json:"salary_compensation,omitempty"`
	Notes               string `json:"notes,omitempty"`
	Tags                string `json:"tags,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
	CompletedAt         string `json:"completed_at,omitempty"`
}

// ProfessionalTaskFilter is a conjunctive filter.
type ProfessionalTaskFilter struct {
	Status              string `json:"status,omitempty"`
	Type                string `json:"type,omitempty"`
	CompanyOrganization string `json:"company_organization,omitempty"` // substring match
	UpcomingDays        int    `json:"upcoming_days,omitempty"`
}

// -----------------------------------------------------------------------------
// COURSES
// -----------------------------------------------------------------------------

// Course statuses.
const (
	CourseActive    = "active"
	CourseCompleted = "completed"
	CourseDropped   = "dropped"
)

// Course is one catalog entry; course_code is unique per session.
type Course struct {
	ID            int64  `json:"id"`
	CourseCode    string `json:"course_code"`
	CourseName    string `json:"course_name"`
	Instructor    string `json:"instructor,omitempty"`
	Semester      string `json:"semester,omitempty"`
	Credits       int    `json:"credits,omitempty"`
	Status        string `json:"status"`
	FinalGrade    string `json:"final_grade,omitempty"`
	Description   string `json:"description,omitempty"`
	TopicsCovered string `json:"topics_covered,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CourseFilter is a conjunctive filter.
type CourseFilter struct {
	Status   string `json:"status,omitempty"`
	Semester string `json:"semester,omitempty"`
}

// -----------------------------------------------------------------------------
// STUDY SESSIONS & KNOWLEDGE
// -----------------------------------------------------------------------------

// Understanding levels reported after a study session.
const (
	UnderstandingStruggling = "struggling"
	UnderstandingPartial    = "partial"
	UnderstandingGood       = "good"
	UnderstandingExcellent  = "excellent"
)

// Proficiency levels maintained per (course, topic).
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// StudySession records one study activity. Logging a session that names both
// a course_code and a topic also upserts the knowledge base.
type StudySession struct {
	ID                 int64   `json:"id"`
	CourseCode         string  `json:"course_code,omitempty"`
	Topic              string  `json:"topic"`
	Subtopics          string  `json:"subtopics,omitempty"`
	DurationMinutes    int     `json:"duration_minutes,omitempty"`
	SessionType        string  `json:"session_type,omitempty"`
	UnderstandingLevel string  `json:"understanding_level,omitempty"`
	KeyConcepts        *string `json:"key_concepts,omitempty"` // pointer: the knowledge upsert distinguishes "supplied empty" from absent
	QuestionsRaised    string  `json:"questions_raised,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	SessionDate        string  `json:"session_date"`
	CreatedAt          string  `json:"created_at"`
}

// StudySessionFilter is a conjunctive filter.
type StudySessionFilter struct {
	CourseCode string `json:"course_code,omitempty"`
	Topic      string `json:"topic,omitempty"` // substring match
	LastNDays  int    `json:"last_n_days,omitempty"`
}

// KnowledgeEntry is the derived proficiency record keyed by
// (course_code, topic, subtopic).
type KnowledgeEntry struct {
	ID               int64  `json:"id"`
	CourseCode       string `json:"course_code"`
	Topic            string `json:"topic"`
	Subtopic         string `json:"subtopic,omitempty"`
	ProficiencyLevel string `json:"proficiency_level"`
	LastStudied      string `json:"last_studied,omitempty"`
	StudyCount       int    `json:"study_count"`
	Notes            string `json:"notes,omitempty"`
	RelatedTopics    string `json:"related_topics,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// CHAT
// -----------------------------------------------------------------------------

// Conversation modes. Each mode selects a system prompt and partitions chat
// history; unrecognized modes fall back to a generic prompt.
const (
	ModeStudyHelper = "study_helper"
	ModePlanner     = "planner"
	ModeGeneral     = "general"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ChatMessage is one append-only chat history row.
type ChatMessage struct {
	ID             int64  `json:"id"`
	Mode           string `json:"mode"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	CourseContext  string `json:"course_context,omitempty"`
	TaskReferences string `json:"task_references,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// -----------------------------------------------------------------------------
// UNIFIED VIEWS
// -----------------------------------------------------------------------------

// Task categories in the unified upcoming view.
const (
	CategoryAcademic     = "academic"
	CategoryProfessional = "professional"
)

// UpcomingTask is one merged row of the unified upcoming view: an academic
// task (date = due_date) or a professional task (date = deadline), tagged
// with its category.
type UpcomingTask struct {
	Category string `json:"category"`

	ID              int64  `json:"id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	DueDate         string `json:"due_date,omitempty"` // academic
	Deadline        string `json:"deadline,omitempty"` // professional
	CourseCode      string `json:"course_code,omitempty"`
	CourseName      string `json:"course_name,omitempty"`
	CompanyOrg      string `json:"company_organization,omitempty"`
	PositionRole    string `json:"position_role,omitempty"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Date returns the unified sort date for the row.
func (t UpcomingTask) Date() string {
	if t.Category == CategoryProfessional {
		return t.Deadline
	}
	return t.DueDate
}

// StudentContext is the academic snapshot handed to the model.
type StudentContext struct {
	Courses        []*Course         `json:"courses"`
	Knowledge      []*KnowledgeEntry `json:"knowledge"`
	RecentStudy    []*StudySession   `json:"recent_study"`
	TotalStudyTime int               `json:"total_study_time"` // minutes over recent_study
}

// FullContext is StudentContext plus profile and preferences.
type FullContext struct {
	Profile     *Profile     `json:"profile"`
	Preferences *Preferences `json:"preferences"`
	StudentContext
}
