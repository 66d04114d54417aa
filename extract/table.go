package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/gradewatch/grades"
	"github.com/hazyhaar/gradewatch/textnorm"
)

// ParseTable walks a grades table's HTML and returns one raw row per data
// row. The header row is read once to build a column-index map, assumed
// stable for the rest of the table. Unmatched columns are skipped; rows
// with neither a course nor a grade are discarded.
func ParseTable(html string) ([]grades.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}

	headers := headerMap(doc)

	body := doc.Find("tbody tr")
	if body.Length() == 0 {
		// Variant markup without tbody: every tr except the header row.
		if all := doc.Find("tr"); all.Length() > 1 {
			body = all.Slice(1, goquery.ToEnd)
		}
	}

	var rows []grades.RawRow
	body.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		row := grades.RawRow{
			RawText:           textnorm.Normalize(tr.Text()),
			NotebookAvailable: notebookAvailable(tr),
		}

		cells.Each(func(i int, cell *goquery.Selection) {
			key := ""
			if i < len(headers) {
				key = headers[i]
			}
			if key == "" {
				// The older markup variant labels cells directly.
				if h, ok := cell.Attr("data-header"); ok {
					key, _ = textnorm.HeaderToKey(h)
				}
			}
			if key == "" {
				return
			}

			val := textnorm.Normalize(cell.Text())
			switch key {
			case textnorm.FieldCourse:
				row.Course = val
			case textnorm.FieldGrade:
				row.Grade = val
			case textnorm.FieldMoed:
				row.Moed = val
			case textnorm.FieldTerm:
				row.Term = val
			case textnorm.FieldDate:
				row.Date = textnorm.NormalizeDate(val)
			}
		})

		if row.Course == "" && row.Grade == "" {
			return
		}
		rows = append(rows, row)
	})

	return rows, nil
}

// headerMap reads the header cells once and maps column index to canonical
// field name ("" for unmatched columns).
func headerMap(doc *goquery.Document) []string {
	cells := doc.Find("thead th")
	if cells.Length() == 0 {
		cells = doc.Find("tr").First().Find("th, td")
	}

	headers := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		key, _ := textnorm.HeaderToKey(cell.Text())
		headers = append(headers, key)
	})
	return headers
}

// notebookAvailable decides notebook availability by the enablement state
// of the row's notebook action control: a disabled control means no scanned
// notebook exists yet. This heuristic is deliberately different from the
// API path's file-reference rule; the two sources disagree on metadata.
func notebookAvailable(tr *goquery.Selection) bool {
	btns := tr.Find("button")
	if btns.Length() == 0 {
		return false
	}

	target := btns.First()
	btns.EachWithBreak(func(_ int, b *goquery.Selection) bool {
		cls, _ := b.Attr("class")
		if strings.Contains(cls, "icon-ShowNote") ||
			strings.Contains(b.Text(), "מחברת") ||
			strings.Contains(b.Text(), "הצגת") {
			target = b
			return false
		}
		return true
	})

	_, disabled := target.Attr("disabled")
	return !disabled
}
