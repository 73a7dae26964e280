package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"
)

func TestDetect(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name    string
		headers []string
		want    string
		wantOK  bool
	}{
		{"programs", []string{"School", "Program Name", "Program Type"}, "programs", true},
		{"students", []string{"Student Name", "Email", "Pronouns"}, "students", true},
		{"semesters", []string{"Semester", "Start Date", "End Date"}, "semesters", true},
		{"courses", []string{"Course Code", "Course Name", "Instructor"}, "courses", true},
		{"outreach", []string{"Contact Name", "Contact Role", "Touchpoint"}, "outreach_contacts", true},
		{"separators ignored", []string{"program_name", "PROGRAM-TYPE"}, "programs", true},
		{"single weak header below threshold", []string{"credits"}, "", false},
		{"nothing matches", []string{"Foo", "Bar"}, "", false},
		{"no headers", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.Detect(tt.headers)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_TieGoesToEarlierDescriptor(t *testing.T) {
	r := core.NewRegistry()
	r.MustRegister(core.TableDescriptor{
		Key: "first", DestinationTable: "first_t",
		IdentifyKeywords: []string{"widget"},
	})
	r.MustRegister(core.TableDescriptor{
		Key: "second", DestinationTable: "second_t",
		IdentifyKeywords: []string{"widget"},
	})

	got, ok := r.Detect([]string{"Widget"})
	assert.True(t, ok)
	assert.Equal(t, "first", got)
}

// Two keywords of one descriptor always outscore a descriptor that matches
// neither, unless another descriptor's keyword is hidden inside them.
func TestDetect_OwnKeywordsWin(t *testing.T) {
	r := newTestRegistry(t)
	all := r.All()

	shadowed := func(owner *core.TableDescriptor, headers []string) bool {
		for _, other := range all {
			if other.Key == owner.Key {
				continue
			}
			for _, kw := range other.IdentifyKeywords {
				for _, h := range headers {
					if strings.Contains(h, kw) {
						return true
					}
				}
			}
		}
		return false
	}

	for _, d := range all {
		for i := 0; i < len(d.IdentifyKeywords); i++ {
			for j := i + 1; j < len(d.IdentifyKeywords); j++ {
				headers := []string{d.IdentifyKeywords[i], d.IdentifyKeywords[j]}
				if shadowed(d, headers) {
					continue
				}
				got, ok := r.Detect(headers)
				assert.True(t, ok, "%s: %v", d.Key, headers)
				assert.Equal(t, d.Key, got, "%v", headers)
			}
		}
	}
}

func TestDetectBySheetName(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		sheet  string
		want   string
		wantOK bool
	}{
		{"Universities", "universities", true},
		{"Program List", "programs", true},
		{"Fall Semester 2024", "semesters", true},
		{"s4g_staff", "staff", true},
		{"Outreach Log", "outreach_contacts", true},
		{"Scratch", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			got, ok := r.DetectBySheetName(tt.sheet)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectSheet_FallsBackToHeaders(t *testing.T) {
	r := newTestRegistry(t)

	got, ok := r.DetectSheet("Sheet1", []string{"Course Name", "Credits"})
	assert.True(t, ok)
	assert.Equal(t, "courses", got)

	got, ok = r.DetectSheet("Universities", []string{"Course Name", "Credits"})
	assert.True(t, ok)
	assert.Equal(t, "universities", got, "sheet name wins over headers")
}
