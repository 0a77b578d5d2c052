package tools

import (
	"context"

	"github.com/studypilot/studypilot/internal/core"
)

func (r *Registry) registerAcademicTools() {
	r.Register(&Tool{
		Name:        "add_academic_task",
		Description: "Add a new academic task (lecture, quiz, exam, lab, assignment, self-study session, or deadline). Parse dates naturally from user input.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{"lecture", "quiz", "exam", "lab", "assignment", "selfstudy", "deadline"},
					"description": "Type of academic task",
				},
				"course_code":      map[string]any{"type": "string", "description": "Course code (e.g., CS101, MATH201)"},
				"course_name":      map[string]any{"type": "string", "description": "Full course name"},
				"title":            map[string]any{"type": "string", "description": "Task title"},
				"description":      map[string]any{"type": "string", "description": "Detailed description"},
				"due_date":         map[string]any{"type": "string", "description": "Due date/time in ISO 8601 format (YYYY-MM-DDTHH:MM:SSZ)"},
				"duration_minutes": map[string]any{"type": "number", "description": "Duration for lectures or study sessions"},
				"location":         map[string]any{"type": "string", "description": "Physical or virtual location (for lectures/labs)"},
				"priority": map[string]any{
					"type":        "string",
					"enum":        []string{"low", "medium", "high", "urgent"},
					"description": "Task priority level",
				},
			},
			"required": []string{"type", "title"},
		},
		Handler: r.handleAddAcademicTask,
	})

	r.Register(&Tool{
		Name:        "get_academic_tasks",
		Description: "Get academic tasks with optional filters. Use to show tasks, check schedule, or find specific assignments.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"enum":        []string{"pending", "in_progress", "completed", "cancelled"},
					"description": "Filter by completion status",
				},
				"course_code":   map[string]any{"type": "string", "description": "Filter by specific course"},
				"type":          map[string]any{"type": "string", "description": "Filter by task type"},
				"upcoming_days": map[string]any{"type": "number", "description": "Get tasks due in next N days"},
			},
		},
		Handler: r.handleGetAcademicTasks,
	})

	r.Register(&Tool{
		Name:        "update_academic_task",
		Description: "Update an existing academic task (change status, dates, details, etc.)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{"type": "number", "description": "Task ID to update"},
				"updates": map[string]any{
					"type":                 "object",
					"description":          "Fields to update (status, priority, due_date, grade, notes, etc.)",
					"additionalProperties": true,
				},
			},
			"required": []string{"id", "updates"},
		},
		Handler: r.handleUpdateAcademicTask,
	})
}

func (r *Registry) handleAddAcademicTask(ctx context.Context, args map[string]any) (string, error) {
	task, err := r.h.Tasks.Add(&core.AcademicTask{
		Type:            argString(args, "type"),
		CourseCode:      argString(args, "course_code"),
		CourseName:      argString(args, "course_name"),
		Title:           argString(args, "title"),
		Description:     argString(args, "description"),
		DueDate:         argString(args, "due_date"),
		DurationMinutes: argInt(args, "duration_minutes"),
		Location:        argString(args, "location"),
		Priority:        argString(args, "priority"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(task)
}

func (r *Registry) handleGetAcademicTasks(ctx context.Context, args map[string]any) (string, error) {
	tasks, err := r.h.Tasks.List(core.AcademicTaskFilter{
		Status:       argString(args, "status"),
		CourseCode:   argString(args, "course_code"),
		Type:         argString(args, "type"),
		UpcomingDays: argInt(args, "upcoming_days"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(tasks)
}

func (r *Registry) handleUpdateAcademicTask(ctx context.Context, args map[string]any) (string, error) {
	id, err := argID(args)
	if err != nil {
		return "", err
	}
	updates, err := argUpdates(args)
	if err != nil {
		return "", err
	}

	if err := r.h.Tasks.Update(id, updates); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"updated": id})
}
