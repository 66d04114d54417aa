package extract

import "testing"

const fixtureTable = `
<table class="table" role="grid">
<thead><tr>
	<th>שם הקורס</th>
	<th>סוג</th>
	<th>מועד</th>
	<th>תאריך ושעה</th>
	<th>ציון</th>
	<th>פעולות</th>
</tr></thead>
<tbody>
<tr>
	<td>אלגברה לינארית</td>
	<td>בחינה</td>
	<td>א</td>
	<td>05/03/2024 09:00</td>
	<td>85</td>
	<td><button class="icon-ShowNote">הצגת מחברת</button></td>
</tr>
<tr>
	<td>חדו"א 1</td>
	<td>בחינה</td>
	<td>ב</td>
	<td>-</td>
	<td></td>
	<td><button class="icon-ShowNote" disabled>הצגת מחברת</button></td>
</tr>
<tr>
	<td></td>
	<td></td>
	<td></td>
	<td></td>
	<td></td>
	<td><button disabled>הצגת מחברת</button></td>
</tr>
</tbody>
</table>`

func TestParseTable(t *testing.T) {
	rows, err := ParseTable(fixtureTable)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	// Third row has neither course nor grade and must be discarded.
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(rows), rows)
	}

	first := rows[0]
	if first.Course != "אלגברה לינארית" {
		t.Errorf("course = %q", first.Course)
	}
	if first.Grade != "85" {
		t.Errorf("grade = %q", first.Grade)
	}
	if first.Moed != "א" {
		t.Errorf("moed = %q", first.Moed)
	}
	if first.Date != "2024-03-05 09:00" {
		t.Errorf("date = %q, want normalized ISO", first.Date)
	}
	if !first.NotebookAvailable {
		t.Error("enabled notebook control should mean available")
	}
	if first.RawText == "" {
		t.Error("raw text should carry the full row text")
	}

	second := rows[1]
	if second.NotebookAvailable {
		t.Error("disabled notebook control should mean unavailable")
	}
	if second.Date != "" {
		t.Errorf("sentinel date should normalize to empty, got %q", second.Date)
	}
}

// The older markup variant labels cells with data-header instead of a
// thead row.
func TestParseTableDataHeaderVariant(t *testing.T) {
	html := `
<table>
<tbody>
<tr>
	<td data-header="שם הקורס">פיזיקה</td>
	<td data-header="ציון">92</td>
	<td data-header="עמודה לא מוכרת">junk</td>
</tr>
</tbody>
</table>`
	rows, err := ParseTable(html)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Course != "פיזיקה" || rows[0].Grade != "92" {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestParseTableNoRows(t *testing.T) {
	rows, err := ParseTable(`<table><thead><tr><th>ציון</th></tr></thead><tbody></tbody></table>`)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestParseTableUnmatchedColumnsIgnored(t *testing.T) {
	html := `
<table>
<thead><tr><th>שם הקורס</th><th>mystery</th><th>ציון</th></tr></thead>
<tbody><tr><td>סטטיסטיקה</td><td>whatever</td><td>71</td></tr></tbody>
</table>`
	rows, err := ParseTable(html)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Grade != "71" {
		t.Fatalf("rows = %+v", rows)
	}
}
