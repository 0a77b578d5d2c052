package tools

import (
	"context"

	"github.com/studypilot/studypilot/internal/composer"
	"github.com/studypilot/studypilot/internal/core"
)

func (r *Registry) registerProfileTools() {
	r.Register(&Tool{
		Name:        "set_user_profile",
		Description: "Set or update student profile information (name, major, year, university, GPA, timezone, study goals)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string", "description": "Student full name"},
				"major": map[string]any{"type": "string", "description": "Academic major/field of study"},
				"year": map[string]any{
					"type":        "string",
					"enum":        []string{"freshman", "sophomore", "junior", "senior", "graduate"},
					"description": "Current year in school",
				},
				"university":                map[string]any{"type": "string", "description": "University or college name"},
				"gpa":                       map[string]any{"type": "number", "description": "Current GPA (0.0-4.0 scale)"},
				"timezone":                  map[string]any{"type": "string", "description": "Timezone (e.g., America/New_York, Europe/London)"},
				"study_goal_hours_per_week": map[string]any{"type": "number", "description": "Weekly study goal in hours"},
			},
		},
		Handler: r.handleSetUserProfile,
	})

	r.Register(&Tool{
		Name:        "get_user_profile",
		Description: "Get current student profile information",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler:     r.handleGetUserProfile,
	})

	r.Register(&Tool{
		Name:        "set_preferences",
		Description: "Set user preferences (theme, notifications, reminder time, default priority)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"theme":                 map[string]any{"type": "string", "enum": []string{"light", "dark"}, "description": "UI theme preference"},
				"notifications_enabled": map[string]any{"type": "boolean", "description": "Enable/disable notifications"},
				"reminder_time":         map[string]any{"type": "string", "description": "Default reminder time (HH:MM format)"},
				"default_priority": map[string]any{
					"type":        "string",
					"enum":        []string{"low", "medium", "high", "urgent"},
					"description": "Default priority for new tasks",
				},
			},
		},
		Handler: r.handleSetPreferences,
	})

	r.Register(&Tool{
		Name:        "get_preferences",
		Description: "Get current user preferences (theme, notifications, reminder time, default priority)",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler:     r.handleGetPreferences,
	})

	r.Register(&Tool{
		Name:        "get_full_context",
		Description: "Get complete student context including profile, preferences, courses, knowledge base, and recent study sessions. Use this before answering study-related questions.",
		Parameters:  map[string]any{"type": "object", "properties": map[string]any{}},
		Handler:     r.handleGetFullContext,
	})

	r.Register(&Tool{
		Name:        "get_student_context",
		Description: "Get the academic snapshot only: courses, knowledge base, and recent study sessions without profile or preferences.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code": map[string]any{"type": "string", "description": "Optional: narrow the knowledge base to one course"},
			},
		},
		Handler: r.handleGetStudentContext,
	})
}

func (r *Registry) handleSetUserProfile(ctx context.Context, args map[string]any) (string, error) {
	profile, err := r.h.State.UpdateProfile(core.ProfileUpdate{
		Name:                  argStringPtr(args, "name"),
		Major:                 argStringPtr(args, "major"),
		Year:                  argStringPtr(args, "year"),
		University:            argStringPtr(args, "university"),
		GPA:                   argFloatPtr(args, "gpa"),
		Timezone:              argStringPtr(args, "timezone"),
		StudyGoalHoursPerWeek: argFloatPtr(args, "study_goal_hours_per_week"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(profile)
}

func (r *Registry) handleGetUserProfile(ctx context.Context, args map[string]any) (string, error) {
	profile, err := r.h.State.GetProfile()
	if err != nil {
		return "", err
	}
	return toJSON(profile)
}

func (r *Registry) handleSetPreferences(ctx context.Context, args map[string]any) (string, error) {
	prefs, err := r.h.State.UpdatePreferences(core.PreferencesUpdate{
		Theme:                argStringPtr(args, "theme"),
		NotificationsEnabled: argBoolPtr(args, "notifications_enabled"),
		ReminderTime:         argStringPtr(args, "reminder_time"),
		DefaultPriority:      argStringPtr(args, "default_priority"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(prefs)
}

func (r *Registry) handleGetPreferences(ctx context.Context, args map[string]any) (string, error) {
	prefs, err := r.h.State.GetPreferences()
	if err != nil {
		return "", err
	}
	return toJSON(prefs)
}

func (r *Registry) handleGetFullContext(ctx context.Context, args map[string]any) (string, error) {
	full, err := composer.FullContext(r.h)
	if err != nil {
		return "", err
	}
	return toJSON(full)
}

func (r *Registry) handleGetStudentContext(ctx context.Context, args map[string]any) (string, error) {
	snapshot, err := composer.StudentContext(r.h, argString(args, "course_code"))
	if err != nil {
		return "", err
	}
	return toJSON(snapshot)
}
