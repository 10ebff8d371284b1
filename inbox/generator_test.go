package inbox

import (
	"encoding/json"
	"testing"
	"time"

	"focusly-api/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func nativePage(rows ...models.Row) models.Page {
	structure, _ := models.DefaultStructure(models.KindTable)
	return models.Page{
		ID:        "p1",
		Name:      "Tasks",
		Kind:      models.KindTable,
		Origin:    models.OriginNative,
		Structure: structure,
		Rows:      rows,
	}
}

func TestOverdueRow(t *testing.T) {
	page := nativePage(models.Row{"id": "r1", "Name": "File taxes", "Status": "Todo", "Date": "2020-01-01"})

	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	n := out[0]
	assert.Equal(t, "native-overdue-p1-r1", n.ID)
	assert.Equal(t, `"File taxes" is due or overdue.`, n.Message)
	assert.Equal(t, "In: Tasks", n.Meta)
	assert.Equal(t, models.NotificationTypeDueDate, n.Type)
	assert.Equal(t, "🚨", n.Icon)

	// Regenerating produces the same id, so a dismissal sticks
	dismissed := map[string]bool{n.ID: true}
	assert.Empty(t, Generate([]models.Page{page}, dismissed, testNow))
}

func TestDueYesterdayIsOverdue(t *testing.T) {
	page := nativePage(models.Row{"id": "r1", "Name": "Water plants", "Status": "Todo", "Date": "2024-06-14"})
	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	assert.Equal(t, "native-overdue-p1-r1", out[0].ID)
}

func TestDueTodayStaysSilent(t *testing.T) {
	// A row becomes overdue only once its due day has fully passed
	page := nativePage(models.Row{"id": "r1", "Name": "Water plants", "Status": "Todo", "Date": "2024-06-15"})
	assert.Empty(t, Generate([]models.Page{page}, nil, testNow))
}

func TestFutureDueDateStaysSilent(t *testing.T) {
	page := nativePage(models.Row{"id": "r1", "Name": "Renew passport", "Status": "Todo", "Date": "2024-06-16"})
	assert.Empty(t, Generate([]models.Page{page}, nil, testNow))
}

func TestPendingWithoutDate(t *testing.T) {
	page := nativePage(models.Row{"id": "r1", "createdAt": "2024-06-01T08:00:00Z", "Name": "Call dentist", "Status": "Todo"})
	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	n := out[0]
	assert.Equal(t, "native-pending-p1-r1", n.ID)
	assert.Equal(t, `You have a pending task: "Call dentist".`, n.Message)
	assert.Equal(t, "📝", n.Icon)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), n.Date)
}

func TestDoneRowsSkipped(t *testing.T) {
	page := nativePage(
		models.Row{"id": "r1", "Name": "Shipped", "Status": "Done", "Date": "2020-01-01"},
		models.Row{"id": "r2", "Name": "Also done", "Status": "Todo", "Done": true},
	)
	// A row is done via its Status or via a checked Checkbox column
	page.Structure = append(page.Structure, models.Property{Name: "Done", Type: "Checkbox"})
	assert.Empty(t, Generate([]models.Page{page}, nil, testNow))
}

func TestUntitledFallback(t *testing.T) {
	page := nativePage(models.Row{"id": "r1", "Status": "Todo"})
	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	assert.Equal(t, `You have a pending task: "Untitled Task".`, out[0].Message)
}

func templatePage(id, name, file string, content interface{}) models.Page {
	raw, _ := json.Marshal(content)
	return models.Page{
		ID:           id,
		Name:         name,
		Kind:         models.KindTemplate,
		Origin:       models.OriginTemplate,
		TemplateFile: file,
		Content:      raw,
	}
}

func TestTrackerUngradedAssignments(t *testing.T) {
	grade := "A"
	page := templatePage("p2", "Spring Term", "tracker.html", map[string]interface{}{
		"courses": []map[string]interface{}{
			{
				"id":    1,
				"title": "Algebra",
				"assignments": []map[string]interface{}{
					{"id": 11, "title": "Homework 1", "grade": nil},
					{"id": 12, "title": "Homework 2", "grade": grade},
					{"id": 13, "title": "Homework 3", "grade": ""},
				},
			},
		},
	})

	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 2)
	assert.Equal(t, "template-tracker-p2-11", out[0].ID)
	assert.Equal(t, `Ungraded assignment: "Homework 1".`, out[0].Message)
	assert.Equal(t, "🎒", out[0].Icon)
	assert.Equal(t, "template-tracker-p2-13", out[1].ID)
}

func TestDashboardOpenTasks(t *testing.T) {
	page := templatePage("p3", "Semester", "dashboard.html", map[string]interface{}{
		"tasks": map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": "t1", "text": "Read chapter 4", "completed": false},
				{"id": "t2", "text": "Submit essay", "completed": true},
			},
		},
	})

	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	assert.Equal(t, "template-dashboard-p3-t1", out[0].ID)
	assert.Equal(t, `To-do in Student Dashboard: "Read chapter 4".`, out[0].Message)
	assert.Equal(t, "🎓", out[0].Icon)
}

func TestShoppingUncheckedItems(t *testing.T) {
	page := templatePage("p4", "Groceries", "shopping-cart.html", map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": 1, "name": "Milk", "purchased": false},
			{"id": 2, "name": "Bread", "purchased": true},
		},
	})

	out := Generate([]models.Page{page}, nil, testNow)
	assert.Len(t, out, 1)
	assert.Equal(t, "template-shopping-p4-1", out[0].ID)
	assert.Equal(t, `Unchecked shopping item: "Milk".`, out[0].Message)
	assert.Equal(t, "🛒", out[0].Icon)
}

func TestTemplateKindOutsideCatalogEmitsNothing(t *testing.T) {
	// Workspace and vision-board pages migrate and render, but no extraction
	// rule applies to them
	workspace := templatePage("p7", "My Workspace", "workspace.html", map[string]interface{}{
		"columns": []map[string]interface{}{{"id": 1, "title": "Ideas"}},
	})
	vision := templatePage("p8", "2024 Goals", "yearly-vision.html", map[string]interface{}{
		"goals": []map[string]interface{}{{"id": 1, "text": "Run a marathon"}},
	})
	assert.Empty(t, Generate([]models.Page{workspace, vision}, nil, testNow))
}

func TestMalformedTemplateContentIgnored(t *testing.T) {
	page := models.Page{
		ID:           "p5",
		Name:         "Broken",
		Origin:       models.OriginTemplate,
		TemplateFile: "tracker.html",
		Content:      json.RawMessage(`{not json`),
	}
	assert.Empty(t, Generate([]models.Page{page}, nil, testNow))
}

func TestGenerateReturnsEmptySliceNotNil(t *testing.T) {
	out := Generate(nil, nil, testNow)
	assert.NotNil(t, out, "an empty inbox must serialize as [] rather than null")
	assert.Empty(t, out)
}

func TestInboxSortedMostRecentFirst(t *testing.T) {
	old := nativePage(models.Row{"id": "r1", "Name": "Ancient", "Status": "Todo", "Date": "2020-01-01"})
	recent := nativePage(models.Row{"id": "r2", "Name": "Recent", "Status": "Todo", "Date": "2024-06-01"})
	recent.ID = "p6"

	out := Generate([]models.Page{old, recent}, nil, testNow)
	assert.Len(t, out, 2)
	assert.Equal(t, "native-overdue-p6-r2", out[0].ID)
	assert.Equal(t, "native-overdue-p1-r1", out[1].ID)
	assert.True(t, out[0].Date.After(out[1].Date))
}
