package tables

import "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"

var universities = core.TableDescriptor{
	Key:              "universities",
	DestinationTable: "university",
	IdentifyKeywords: []string{"school", "university", "institution", "college"},
	RequiredFields:   []string{"name"},
	HeaderMap: headers(
		"school", "name",
		"university", "name",
		"university name", "name",
		"institution", "name",
		"college", "name",
		"name", "name",
		"abbreviation", "abbreviation",
		"abbrev", "abbreviation",
		"city", "city",
		"state", "state",
		"website", "website",
		"url", "website",
		"contact name", "primary_contact_name",
		"primary contact", "primary_contact_name",
		"contact email", "primary_contact_email",
		"contact phone", "primary_contact_phone",
		"notes", "notes",
		"partnership start", "partnership_start_date",
		"start date", "partnership_start_date",
	),
	UniqueColumn: "name",
}

var semesters = core.TableDescriptor{
	Key:              "semesters",
	DestinationTable: "semester",
	IdentifyKeywords: []string{"semester", "term", "academic year"},
	RequiredFields:   []string{"name", "start_date", "end_date"},
	HeaderMap: headers(
		"semester", "name",
		"term", "name",
		"name", "name",
		"academic year", "academic_year",
		"year", "academic_year",
		"start date", "start_date",
		"start", "start_date",
		"begins", "start_date",
		"end date", "end_date",
		"end", "end_date",
		"ends", "end_date",
		"current", "is_current",
		"is current", "is_current",
	),
	UniqueColumn: "name",
}

var staff = core.TableDescriptor{
	Key:              "staff",
	DestinationTable: "s4g_staff",
	IdentifyKeywords: []string{"s4g staff", "staff name", "staff member", "coordinator"},
	RequiredFields:   []string{"name"},
	HeaderMap: headers(
		"s4g staff", "name",
		"staff name", "name",
		"staff member", "name",
		"staff", "name",
		"coordinator", "name",
		"name", "name",
		"email", "email",
		"staff email", "email",
		"phone", "phone",
		"role", "role",
		"position", "role",
		"title", "role",
		"active", "is_active",
		"is active", "is_active",
	),
	UniqueColumn: "email",
}
