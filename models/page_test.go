package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tableStructure() []Property {
	s, _ := DefaultStructure(KindTable)
	return s
}

func TestDefaultStructure(t *testing.T) {
	list, err := DefaultStructure(KindList)
	assert.NoError(t, err)
	assert.Equal(t, "Item", list[0].Name)
	assert.True(t, list[0].Fixed)
	assert.Equal(t, "Checkbox", list[1].Type)

	table, err := DefaultStructure(KindTable)
	assert.NoError(t, err)
	assert.Len(t, table, 3)
	assert.Equal(t, []string{"Todo", "In Progress", "Done"}, table[1].Options)

	_, err = DefaultStructure("board")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestAddPropertyAutoNumbering(t *testing.T) {
	structure := tableStructure()

	structure, prop, err := AddProperty(structure, "Text")
	assert.NoError(t, err)
	assert.Equal(t, "Text", prop.Name)

	structure, prop, err = AddProperty(structure, "Text")
	assert.NoError(t, err)
	assert.Equal(t, "Text 1", prop.Name)

	_, prop, err = AddProperty(structure, "Text")
	assert.NoError(t, err)
	assert.Equal(t, "Text 2", prop.Name)

	_, _, err = AddProperty(structure, "Ghost")
	assert.ErrorIs(t, err, ErrUnknownPropertyType)
}

func TestTogglePropertySymmetry(t *testing.T) {
	structure, _ := DefaultStructure(KindList)
	rows := []Row{{"id": "r1", "Item": "Buy milk", "Done": false}}

	structure, rows, added, err := ToggleProperty(structure, rows, "Status")
	assert.NoError(t, err)
	assert.True(t, added)
	prop := FindPropertyByType(structure, "Status")
	assert.NotNil(t, prop)

	rows[0][prop.Name] = "Todo"
	structure, rows, added, err = ToggleProperty(structure, rows, "Status")
	assert.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, FindPropertyByType(structure, "Status"))
	_, present := rows[0]["Status"]
	assert.False(t, present, "removed property must clear its row fields")
}

func TestToggleMultiInstanceAlwaysAdds(t *testing.T) {
	structure := tableStructure()
	var err error
	for i := 0; i < 3; i++ {
		structure, _, _, err = ToggleProperty(structure, nil, "Date")
		assert.NoError(t, err)
	}
	count := 0
	for _, p := range structure {
		if p.Type == "Date" {
			count++
		}
	}
	assert.Equal(t, 4, count, "Date is multi-instance and never toggles off")
}

func TestRenamePropagation(t *testing.T) {
	structure := tableStructure()
	rows := []Row{
		{"id": "r1", "Name": "Buy milk", "Status": "Todo"},
		{"id": "r2", "Name": "Walk dog", "Status": "Done"},
	}

	newStructure, newRows, err := RenameProperty(structure, rows, "Status", "State")
	assert.NoError(t, err)
	assert.NotNil(t, FindProperty(newStructure, "State"))
	assert.Nil(t, FindProperty(newStructure, "Status"))
	for i, row := range newRows {
		assert.Equal(t, rows[i]["Status"], row["State"])
		_, stale := row["Status"]
		assert.False(t, stale)
	}
	// Originals untouched
	assert.Equal(t, "Todo", rows[0]["Status"])
	assert.NotNil(t, FindProperty(structure, "Status"))
}

func TestRenameDuplicateRejected(t *testing.T) {
	structure := tableStructure()
	_, _, err := RenameProperty(structure, nil, "Status", "Date")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, _, err = RenameProperty(structure, nil, "Status", "")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestDeletePropertyGuardsFixed(t *testing.T) {
	structure := tableStructure()
	_, _, err := DeleteProperty(structure, nil, "Name")
	assert.ErrorIs(t, err, ErrFixedProperty)

	newStructure, rows, err := DeleteProperty(structure, []Row{{"id": "r1", "Date": "2024-01-01"}}, "Date")
	assert.NoError(t, err)
	assert.Nil(t, FindProperty(newStructure, "Date"))
	_, present := rows[0]["Date"]
	assert.False(t, present)

	// Deleting an absent property is a no-op
	same, _, err := DeleteProperty(structure, nil, "Ghost")
	assert.NoError(t, err)
	assert.Equal(t, structure, same)
}

func TestDedupStructureIdempotent(t *testing.T) {
	structure := []Property{
		{Name: "Name", Type: "Text", Fixed: true},
		{Name: "Status", Type: "Status", Options: []string{"Todo", "Done"}},
		{Name: "Status 1", Type: "Status"},
		{Name: "Name", Type: "Text"},
		{Name: "Due", Type: "Date"},
	}
	rows := []Row{{"id": "r1", "Name": "task", "Status": "Todo", "Status 1": "Done", "Due": "2024-05-01"}}

	once, onceRows := DedupStructure(structure, rows)
	assert.Len(t, once, 3)
	assert.Equal(t, "Status", once[1].Name, "first occurrence wins")
	_, stale := onceRows[0]["Status 1"]
	assert.False(t, stale, "dropped duplicate must lose its row field")
	assert.Equal(t, "Todo", onceRows[0]["Status"])

	twice, twiceRows := DedupStructure(once, onceRows)
	assert.Equal(t, once, twice)
	assert.Equal(t, onceRows, twiceRows)
}

func TestNewRowDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	row := NewRow(tableStructure(), "r1", now)
	assert.Equal(t, "r1", row.ID())
	assert.Equal(t, "2024-06-01T12:00:00Z", row["createdAt"])
	assert.Equal(t, "", row["Name"])
	assert.Equal(t, "Todo", row["Status"])
}

func TestCycleStatus(t *testing.T) {
	prop := Property{Name: "Status", Type: "Status", Options: []string{"Todo", "In Progress", "Done"}}
	assert.Equal(t, "In Progress", CycleStatus(prop, "Todo"))
	assert.Equal(t, "Done", CycleStatus(prop, "In Progress"))
	assert.Equal(t, "Todo", CycleStatus(prop, "Done"))
	// Values outside the options (including empty cells) restart the cycle
	assert.Equal(t, "Todo", CycleStatus(prop, ""))
	assert.Equal(t, "Todo", CycleStatus(prop, "Blocked"))
}

func TestValidateCellValue(t *testing.T) {
	text := Property{Name: "Name", Type: "Text"}
	assert.NoError(t, ValidateCellValue(text, "hello"))
	assert.NoError(t, ValidateCellValue(text, nil))
	assert.Error(t, ValidateCellValue(text, map[string]interface{}{"nested": true}))
	assert.Error(t, ValidateCellValue(text, []interface{}{"list"}))

	checkbox := Property{Name: "Done", Type: "Checkbox"}
	assert.NoError(t, ValidateCellValue(checkbox, true))
	assert.Error(t, ValidateCellValue(checkbox, "checked"))

	number := Property{Name: "Points", Type: "Number"}
	assert.NoError(t, ValidateCellValue(number, "3.5"))
	assert.NoError(t, ValidateCellValue(number, 7.0))
	assert.NoError(t, ValidateCellValue(number, ""))
	assert.Error(t, ValidateCellValue(number, "lots"))
	assert.Error(t, ValidateCellValue(number, true))

	date := Property{Name: "Date", Type: "Date"}
	assert.NoError(t, ValidateCellValue(date, "2024-03-10"))
	assert.NoError(t, ValidateCellValue(date, ""))
	assert.Error(t, ValidateCellValue(date, "soonish"))

	status := Property{Name: "Status", Type: "Status", Options: []string{"Todo", "Done"}}
	assert.NoError(t, ValidateCellValue(status, "Done"))
	assert.NoError(t, ValidateCellValue(status, ""))
	assert.Error(t, ValidateCellValue(status, "Blocked"))
}

func TestPruneRowFields(t *testing.T) {
	structure, _ := DefaultStructure(KindList)
	row := Row{"id": "r1", "createdAt": "2024-01-01T00:00:00Z", "Item": "milk", "Ghost": "x"}
	pruned := PruneRowFields(row, structure)
	_, present := pruned["Ghost"]
	assert.False(t, present)
	assert.Equal(t, "milk", pruned["Item"])
	assert.Equal(t, "r1", pruned.ID())
}

func TestNotificationIDDeterministic(t *testing.T) {
	a := NotificationID(NotificationOverdue, "p1", "r1")
	b := NotificationID(NotificationOverdue, "p1", "r1")
	assert.Equal(t, a, b)
	assert.Equal(t, "native-overdue-p1-r1", a)
	assert.Equal(t, "native-pending-p1-r1", NotificationID(NotificationPending, "p1", "r1"))
	assert.Equal(t, "template-shopping-p1-i1", NotificationID(NotificationTemplateShopping, "p1", "i1"))
}
