package tools

import (
	"context"

	"github.com/studypilot/studypilot/internal/core"
)

func (r *Registry) registerProfessionalTools() {
	r.Register(&Tool{
		Name:        "add_professional_task",
		Description: "Add a professional/career task (job application, internship, online course, certification, interview, networking event)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{"application", "course", "certification", "interview", "networking", "deadline"},
					"description": "Type of professional task",
				},
				"title":                map[string]any{"type": "string", "description": "Task title"},
				"company_organization": map[string]any{"type": "string", "description": "Company name or organization"},
				"position_role":        map[string]any{"type": "string", "description": "Job position or course name"},
				"description":          map[string]any{"type": "string", "description": "Detailed description"},
				"deadline":             map[string]any{"type": "string", "description": "Application deadline in ISO 8601 format"},
				"status": map[string]any{
					"type":        "string",
					"enum":        []string{"not_started", "in_progress", "applied", "interviewing", "offer", "accepted", "rejected", "completed"},
					"description": "Current status",
				},
				"priority":            map[string]any{"type": "string", "enum": []string{"low", "medium", "high", "urgent"}},
				"application_url":     map[string]any{"type": "string", "description": "URL to application portal"},
				"contact_info":        map[string]any{"type": "string", "description": "Recruiter or contact information"},
				"salary_compensation": map[string]any{"type": "string", "description": "Salary range or compensation details"},
			},
			"required": []string{"type", "title"},
		},
		Handler: r.handleAddProfessionalTask,
	})

	r.Register(&Tool{
		Name:        "get_professional_tasks",
		Description: "Get professional tasks with optional filters (applications, courses, certifications, interviews)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status":               map[string]any{"type": "string", "description": "Filter by status"},
				"type":                 map[string]any{"type": "string", "description": "Filter by task type"},
				"company_organization": map[string]any{"type": "string", "description": "Filter by company/organization name"},
				"upcoming_days":        map[string]any{"type": "number", "description": "Get tasks with deadlines in next N days"},
			},
		},
		Handler: r.handleGetProfessionalTasks,
	})

	r.Register(&Tool{
		Name:        "update_professional_task",
		Description: "Update a professional task (status, deadline, notes, etc.)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id":      map[string]any{"type": "number", "description": "Task ID to update"},
				"updates": map[string]any{"type": "object", "additionalProperties": true},
			},
			"required": []string{"id", "updates"},
		},
		Handler: r.handleUpdateProfessionalTask,
	})
}

func (r *Registry) handleAddProfessionalTask(ctx context.Context, args map[string]any) (string, error) {
	task, err := r.h.Career.Add(&core.ProfessionalTask{
		Type:                argString(args, "type"),
		Title:               argString(args, "title"),
		CompanyOrganization: argString(args, "company_organization"),
		PositionRole:        argString(args, "position_role"),
		Description:         argString(args, "description"),
		Deadline:            argString(args, "deadline"),
		Status:              argString(args, "status"),
		Priority:            argString(args, "priority"),
		ApplicationURL:      argString(args, "application_url"),
		ContactInfo:         argString(args, "contact_info"),
		SalaryCompensation:  argString(args, "salary_compensation"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(task)
}

func (r *Registry) handleGetProfessionalTasks(ctx context.Context, args map[string]any) (string, error) {
	tasks, err := r.h.Career.List(core.ProfessionalTaskFilter{
		Status:              argString(args, "status"),
		Type:                argString(args, "type"),
		CompanyOrganization: argString(args, "company_organization"),
		UpcomingDays:        argInt(args, "upcoming_days"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(tasks)
}

func (r *Registry) handleUpdateProfessionalTask(ctx context.Context, args map[string]any) (string, error) {
	id, err := argID(args)
	if err != nil {
		return "", err
	}
	updates, err := argUpdates(args)
	if err != nil {
		return "", err
	}

	if err := r.h.Career.Update(id, updates); err != nil {
		return "", err
	}
	return toJSON(map[string]any{"updated": id})
}
