package tables

import "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"

var programs = core.TableDescriptor{
	Key:              "programs",
	DestinationTable: "program",
	IdentifyKeywords: []string{"program", "program name", "program type"},
	RequiredFields:   []string{"name", "university"},
	HeaderMap: headers(
		"program", "name",
		"program name", "name",
		"name", "name",
		"school", "university",
		"university", "university",
		"type", "program_type",
		"program type", "program_type",
		"department", "department",
		"dept", "department",
		"description", "description",
		"s4g staff", "staff_name",
		"staff", "staff_name",
		"coordinator", "staff_name",
		"active", "is_active",
	),
	ForeignKeys: []core.ForeignKey{
		{Field: "university", Table: "university", Column: "name", Target: "university_id"},
		{Field: "staff_name", Table: "s4g_staff", Column: "name", Target: "s4g_staff_id"},
	},
}

var courses = core.TableDescriptor{
	Key:              "courses",
	DestinationTable: "course",
	IdentifyKeywords: []string{"course", "course code", "course name", "class"},
	RequiredFields:   []string{"course_name", "program"},
	HeaderMap: headers(
		"course code", "course_code",
		"code", "course_code",
		"course number", "course_code",
		"course", "course_name",
		"course name", "course_name",
		"class", "course_name",
		"class name", "course_name",
		"program", "program",
		"faculty", "faculty_names",
		"instructor", "faculty_names",
		"professor", "faculty_names",
		"teacher", "faculty_names",
		"schedule", "schedule",
		"time", "schedule",
		"meeting time", "schedule",
		"description", "description",
		"credits", "credits",
		"credit hours", "credits",
		"dairy content", "includes_dairy_content",
		"includes dairy", "includes_dairy_content",
		"dairy", "includes_dairy_content",
	),
	ForeignKeys: []core.ForeignKey{
		{Field: "program", Table: "program", Column: "name", Target: "program_id"},
	},
}

// partnerships are service-learning engagements between a program and a
// semester. The university field has no lookup and is rejected by storage.
var partnerships = core.TableDescriptor{
	Key:              "partnerships",
	DestinationTable: "partnership",
	IdentifyKeywords: []string{"students participating", "total students", "status", "ty note"},
	RequiredFields:   []string{"program", "semester"},
	HeaderMap: headers(
		"semester", "semester",
		"term", "semester",
		"school", "university",
		"university", "university",
		"program", "program",
		"program name", "program",
		"course", "course",
		"students participating", "students_participating",
		"participating", "students_participating",
		"student count", "students_participating",
		"total students", "total_in_class",
		"total in class", "total_in_class",
		"class size", "total_in_class",
		"status", "status",
		"partnership status", "status",
		"ty note sent", "ty_note_sent",
		"ty note", "ty_note_sent",
		"thank you", "ty_note_sent",
		"notes", "notes",
		"next steps", "next_steps",
		"follow up", "next_steps",
	),
	ForeignKeys: []core.ForeignKey{
		{Field: "semester", Table: "semester", Column: "name", Target: "semester_id"},
		{Field: "program", Table: "program", Column: "name", Target: "program_id"},
		{Field: "course", Table: "course", Column: "course_name", Target: "course_id"},
	},
}

// TODO: resolve project.partnership to partnership_id once partnerships carry
// a natural key; until then the raw value is rejected by storage.
var projects = core.TableDescriptor{
	Key:              "projects",
	DestinationTable: "project",
	IdentifyKeywords: []string{"project", "project name", "project type", "deliverable"},
	RequiredFields:   []string{"name", "partnership"},
	HeaderMap: headers(
		"project", "name",
		"project name", "name",
		"name", "name",
		"type", "project_type",
		"project type", "project_type",
		"description", "description",
		"start date", "start_date",
		"start", "start_date",
		"end date", "end_date",
		"end", "end_date",
		"max students", "max_students",
		"capacity", "max_students",
		"deliverable", "deliverable_description",
		"success metric", "deliverable_description",
		"partnership", "partnership",
	),
}
