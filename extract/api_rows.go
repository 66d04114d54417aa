package extract

import (
	"encoding/json"
	"strings"

	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/textnorm"
)

// loose is a string field that tolerates number, bool and null JSON values;
// the API mixes these freely across schema revisions.
type loose string

func (l *loose) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*l = loose(s)
		return nil
	}
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*l = ""
		return nil
	}
	*l = loose(strings.Trim(raw, `"`))
	return nil
}

func (l loose) str() string { return strings.TrimSpace(string(l)) }

// apiItem covers only the payload fields needed for grade comparison; the
// rest of the schema is deliberately ignored.
type apiItem struct {
	ID                    loose `json:"Id"`
	Course                loose `json:"Course"`
	CourseDescription     loose `json:"CourseDescription"`
	FinalGrade            loose `json:"FinalGrade"`
	DueDescription        loose `json:"DueDescription"`
	AssignmentDescription loose `json:"AssignmentDescription"`
	DueDate               loose `json:"DueDate"`
	ScanStatus            loose `json:"ScanStatus"`
	File                  loose `json:"File"`
	ScanFileName          loose `json:"ScanFileName"`
}

type apiEnvelope struct {
	Data struct {
		ExamsAndTasksLis *struct {
			List []apiItem `json:"List"`
		} `json:"ExamsAndTasksLis"`
	} `json:"data"`
}

// decodePayload parses a response body and reports whether it carries the
// expected nested list. Non-JSON and unrelated JSON both yield ok=false.
func decodePayload(body []byte) ([]apiItem, bool) {
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false
	}
	if env.Data.ExamsAndTasksLis == nil {
		return nil, false
	}
	return env.Data.ExamsAndTasksLis.List, true
}

// mapAPIRows converts captured items into raw rows. Items without a
// resolved course identifier are dropped and counted, not silently lost.
// Rows are kept even when the grade or date is still empty: a pending exam
// becoming graded is exactly the change worth reporting.
func mapAPIRows(items []apiItem) (rows []grades.RawRow, dropped int) {
	for _, item := range items {
		course := item.CourseDescription.str()
		if course == "" {
			course = item.Course.str()
		}
		if course == "" {
			dropped++
			continue
		}

		rows = append(rows, grades.RawRow{
			Course:            course,
			Grade:             item.FinalGrade.str(),
			Moed:              item.DueDescription.str(),
			Term:              item.AssignmentDescription.str(),
			Date:              textnorm.NormalizeDate(item.DueDate.str()),
			NotebookAvailable: hasNotebookFile(item),
		})
	}
	return rows, dropped
}

// nullLike values show up in the API's placeholder scan fields.
var nullLike = map[string]bool{
	"-": true, "--": true, "none": true, "null": true, "false": true, "0": true,
}

var fileTokens = []string{".pdf", ".doc", ".docx", ".zip", "download", "/"}

// looksLikeFileReference accepts only values that plausibly point at a real
// file: a known extension or a path-like token, and not a placeholder.
func looksLikeFileReference(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	if nullLike[lower] {
		return false
	}
	for _, tok := range fileTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// hasNotebookFile applies the strict two-part rule for API rows: the scan
// status must explicitly say "file" AND at least one file reference must
// look real. The API often ships placeholder scan fields, and either check
// alone produces false positives.
func hasNotebookFile(item apiItem) bool {
	if strings.ToLower(item.ScanStatus.str()) != "file" {
		return false
	}
	return looksLikeFileReference(item.File.str()) ||
		looksLikeFileReference(item.ScanFileName.str())
}
