package tables

import "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"

// students holds personally identifying data. A single name column is split
// into first and last name on the way in.
var students = core.TableDescriptor{
	Key:              "students",
	DestinationTable: "student_pii",
	IdentifyKeywords: []string{"student", "student name", "first name", "last name", "pronouns", "t-shirt"},
	RequiredFields:   []string{"first_name", "last_name"},
	HeaderMap: headers(
		"name", "full_name",
		"student name", "full_name",
		"student", "full_name",
		"first name", "first_name",
		"first", "first_name",
		"last name", "last_name",
		"last", "last_name",
		"email", "email",
		"student email", "email",
		"phone", "phone",
		"pronouns", "pronouns",
		"t-shirt", "tshirt_size",
		"t-shirt size", "tshirt_size",
		"tshirt", "tshirt_size",
		"shirt size", "tshirt_size",
		"year", "year_in_school",
		"year in school", "year_in_school",
		"class year", "year_in_school",
		"grade", "year_in_school",
		"major", "major",
		"areas of interest", "areas_of_interest",
		"interests", "areas_of_interest",
	),
	UniqueColumn:  "email",
	SplitFullName: true,
}

var outreachContacts = core.TableDescriptor{
	Key:              "outreach_contacts",
	DestinationTable: "outreach_contact",
	IdentifyKeywords: []string{"outreach", "touchpoint", "engagement", "conversion", "contact role"},
	RequiredFields:   []string{"contact_name", "university"},
	HeaderMap: headers(
		"contact", "contact_name",
		"contact name", "contact_name",
		"name", "contact_name",
		"email", "contact_email",
		"contact email", "contact_email",
		"phone", "contact_phone",
		"role", "contact_role",
		"contact role", "contact_role",
		"position", "contact_role",
		"title", "contact_role",
		"department", "department",
		"notes", "notes",
		"school", "university",
		"university", "university",
	),
	ForeignKeys: []core.ForeignKey{
		{Field: "university", Table: "university", Column: "name", Target: "university_id"},
	},
}
