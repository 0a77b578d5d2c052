package tools

import (
	"context"

	"github.com/studypilot/studypilot/internal/core"
)

func (r *Registry) registerCourseTools() {
	r.Register(&Tool{
		Name:        "add_course",
		Description: "Add a new course to the student's course catalog",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_code":    map[string]any{"type": "string", "description": "Unique course code (e.g., CS101)"},
				"course_name":    map[string]any{"type": "string", "description": "Full course name"},
				"instructor":     map[string]any{"type": "string", "description": "Instructor/professor name"},
				"semester":       map[string]any{"type": "string", "description": "Semester (e.g., Fall 2026, Spring 2027)"},
				"credits":        map[string]any{"type": "number", "description": "Credit hours"},
				"description":    map[string]any{"type": "string", "description": "Course description"},
				"topics_covered": map[string]any{"type": "string", "description": "Comma-separated list of topics"},
			},
			"required": []string{"course_code", "course_name"},
		},
		Handler: r.handleAddCourse,
	})

	r.Register(&Tool{
		Name:        "get_courses",
		Description: "Get student's courses (active, completed, or dropped)",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status":   map[string]any{"type": "string", "enum": []string{"active", "completed", "dropped"}},
				"semester": map[string]any{"type": "string", "description": "Filter by semester"},
			},
		},
		Handler: r.handleGetCourses,
	})
}

func (r *Registry) handleAddCourse(ctx context.Context, args map[string]any) (string, error) {
	course, err := r.h.Courses.Add(&core.Course{
		CourseCode:    argString(args, "course_code"),
		CourseName:    argString(args, "course_name"),
		Instructor:    argString(args, "instructor"),
		Semester:      argString(args, "semester"),
		Credits:       argInt(args, "credits"),
		Description:   argString(args, "description"),
		TopicsCovered: argString(args, "topics_covered"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(course)
}

func (r *Registry) handleGetCourses(ctx context.Context, args map[string]any) (string, error) {
	courses, err := r.h.Courses.List(core.CourseFilter{
		Status:   argString(args, "status"),
		Semester: argString(args, "semester"),
	})
	if err != nil {
		return "", err
	}
	return toJSON(courses)
}
