package tools

import (
	"context"

	"github.com/studypilot/studypilot/internal/composer"
	"github.com/studypilot/studypilot/internal/core"
)

func (r *Registry) registerStudyTools() {
	r.Register(&Tool{
		Name:        "log_study_session",
		Description: "Log a study session to track learning progress and build knowledge base. Always use this after discussing study topics.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code":      map[string]any{"type": "string", "description": "Course being studied"},
				"topic":            map[string]any{"type": "string", "description": "Main topic studied"},
				"subtopics":        map[string]any{"type": "string", "description": "Comma-separated subtopics"},
				"duration_minutes": map[string]any{"type": "number", "description": "Study session duration"},
				"session_type": map[string]any{
					"type":        "string",
					"enum":        []string{"lecture_review", "practice", "reading", "problem_solving", "group_study"},
					"description": "Type of study activity",
				},
				"understanding_level": map[string]any{
					"type":        "string",
					"enum":        []string{"struggling", "partial", "good", "excellent"},
					"description": "How well the topic was understood",
				},
				"key_concepts":     map[string]any{"type": "string", "description": "Key concepts or facts learned"},
				"questions_raised": map[string]any{"type": "string", "description": "Areas of confusion or follow-up questions"},
				"notes":            map[string]any{"type": "string", "description": "Additional notes"},
			},
			"required": []string{"topic"},
		},
		Handler: r.handleLogStudySession,
	})

	r.Register(&Tool{
		Name:        "get_study_sessions",
		Description: "Get past study sessions (to review what was studied)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code": map[string]any{"type": "string"},
				"topic":       map[string]any{"type": "string"},
				"last_n_days": map[string]any{"type": "number", "description": "Sessions from last N days"},
			},
		},
		Handler: r.handleGetStudySessions,
	})

	r.Register(&Tool{
		Name:        "get_knowledge_base",
		Description: "Get student's knowledge base (what topics they know and proficiency levels). Use this in study_helper mode to tailor explanations.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code": map[string]any{"type": "string", "description": "Optional: filter by specific course"},
			},
		},
		Handler: r.handleGetKnowledgeBase,
	})
}

func (r *Registry) handleLogStudySession(ctx context.Context, args map[string]any) (string, error) {
	session, err := r.h.Study.LogSession(&core.StudySession{
		CourseCode:         argString(args, "course_code"),
		Topic:              argString(args, "topic"),
		Subtopics:          argString(args, "subtopics"),
		DurationMinutes:    argInt(args, "duration_minutes"),
		SessionType:        argString(args, "session_type"),
		UnderstandingLevel: argString(args, "understanding_level"),
		KeyConcepts:        argStringPtr(args, "key_concepts"),
		QuestionsRaised:    argString(args, "questions_raised"),
		Notes:              argString(args, "notes"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(session)
}

func (r *Registry) handleGetStudySessions(ctx context.Context, args map[string]any) (string, error) {
	sessions, err := r.h.Study.ListSessions(core.StudySessionFilter{
		CourseCode: argString(args, "course_code"),
		Topic:      argString(args, "topic"),
		LastNDays:  argInt(args, "last_n_days"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(sessions)
}

func (r *Registry) handleGetKnowledgeBase(ctx context.Context, args map[string]any) (string, error) {
	entries, err := r.h.Study.ListKnowledge(argString(args, "course_code"), "")
	if err != nil {
		return "", err
	}
	return toJSON(entries)
}

func (r *Registry) registerCombinedTools() {
	r.Register(&Tool{
		Name:        "get_all_upcoming",
		Description: `Get all upcoming tasks from BOTH academic and professional categories. Use when user asks "what's coming up" without specifying category.`,
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"days": map[string]any{"type": "number", "description": "Number of days to look ahead (default: 7)"},
			},
		},
		Handler: r.handleGetAllUpcoming,
	})
}

func (r *Registry) handleGetAllUpcoming(ctx context.Context, args map[string]any) (string, error) {
	days := argInt(args, "days")
	if days <= 0 {
		days = 7
	}

	tasks, err := composer.Upcoming(r.h, days)
	if err != nil {
		return "", err
	}
	return toJSON(tasks)
}
