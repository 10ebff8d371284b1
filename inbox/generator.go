// Package inbox derives the transient notification inbox from page data.
// Notifications are recomputed from scratch on every call; only the
// dismissed-id set persists.
package inbox

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"focusly-api/models"
	"focusly-api/types"
)

// itemID tolerates template documents whose item ids were written as JSON
// numbers before the store client started stringifying them.
type itemID string

func (f *itemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = itemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = itemID(n.String())
	return nil
}

type assignment struct {
	ID    itemID  `json:"id"`
	Title string  `json:"title"`
	Grade *string `json:"grade"`
}

type course struct {
	ID          itemID       `json:"id"`
	Title       string       `json:"title"`
	Assignments []assignment `json:"assignments"`
}

type boardTask struct {
	ID        itemID `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type shoppingItem struct {
	ID        itemID `json:"id"`
	Name      string `json:"name"`
	Purchased bool   `json:"purchased"`
}

type templateContent struct {
	Courses []course `json:"courses"`
	Tasks   *struct {
		Items []boardTask `json:"items"`
	} `json:"tasks"`
	Items []shoppingItem `json:"items"`
}

// Generate scans every page and returns the visible inbox, most recent
// first. Ids present in dismissed are suppressed; since ids are
// deterministic, a dismissed condition stays suppressed across
// recomputation until its identity changes.
func Generate(pages []models.Page, dismissed map[string]bool, now time.Time) []models.Notification {
	out := []models.Notification{}
	for _, page := range pages {
		switch page.Origin {
		case models.OriginNative:
			out = append(out, fromNativePage(page, now)...)
		case models.OriginTemplate:
			out = append(out, fromTemplatePage(page, now)...)
		}
	}
	visible := out[:0]
	for _, n := range out {
		if !dismissed[n.ID] {
			visible = append(visible, n)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Date.After(visible[j].Date)
	})
	return visible
}

func fromNativePage(page models.Page, now time.Time) []models.Notification {
	if len(page.Structure) == 0 {
		return nil
	}
	statusProp := models.FindPropertyByType(page.Structure, "Status")
	checkboxProp := models.FindPropertyByType(page.Structure, "Checkbox")
	dateProp := models.FindPropertyByType(page.Structure, "Date")

	var out []models.Notification
	for _, row := range page.Rows {
		if rowDone(row, statusProp, checkboxProp) {
			continue
		}
		name := rowTitle(row)
		due := ""
		if dateProp != nil {
			due = row.String(dateProp.Name)
		}
		if due != "" {
			dueTime, ok := types.ParseDateValue(due)
			if !ok {
				continue
			}
			endOfDay := time.Date(dueTime.Year(), dueTime.Month(), dueTime.Day(), 23, 59, 59, 0, time.UTC)
			if daysUntil(endOfDay, now) < 1 {
				out = append(out, models.Notification{
					ID:      models.NotificationID(models.NotificationOverdue, page.ID, row.ID()),
					Message: fmt.Sprintf("%q is due or overdue.", name),
					Meta:    "In: " + page.Name,
					Type:    models.NotificationTypeDueDate,
					Icon:    "🚨",
					Date:    endOfDay,
				})
			}
			// Future due dates produce nothing until they come due.
			continue
		}
		date := row.CreatedAtTime()
		if date.IsZero() {
			date = now
		}
		out = append(out, models.Notification{
			ID:      models.NotificationID(models.NotificationPending, page.ID, row.ID()),
			Message: fmt.Sprintf("You have a pending task: %q.", name),
			Meta:    "In: " + page.Name,
			Type:    models.NotificationTypePending,
			Icon:    "📝",
			Date:    date,
		})
	}
	return out
}

func rowDone(row models.Row, statusProp, checkboxProp *models.Property) bool {
	if statusProp != nil && row.String(statusProp.Name) == "Done" {
		return true
	}
	if checkboxProp != nil && row.Bool(checkboxProp.Name) {
		return true
	}
	return false
}

func rowTitle(row models.Row) string {
	if s := row.String("Name"); s != "" {
		return s
	}
	if s := row.String("Item"); s != "" {
		return s
	}
	return "Untitled Task"
}

// daysUntil counts whole days from the start of today until the target,
// rounding up so that any moment earlier than tomorrow yields a value below 1.
func daysUntil(target, now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	diff := target.Sub(today)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}

func fromTemplatePage(page models.Page, now time.Time) []models.Notification {
	tt := types.GetTemplateTypeByFile(page.TemplateFile)
	if tt == nil || len(page.Content) == 0 {
		return nil
	}
	var content templateContent
	if err := json.Unmarshal(page.Content, &content); err != nil {
		return nil
	}

	var out []models.Notification
	switch tt.File {
	case "tracker.html":
		for _, c := range content.Courses {
			for _, a := range c.Assignments {
				if a.Grade != nil && *a.Grade != "" {
					continue
				}
				out = append(out, models.Notification{
					ID:      models.NotificationID(models.NotificationTemplateTracker, page.ID, string(a.ID)),
					Message: fmt.Sprintf("Ungraded assignment: %q.", a.Title),
					Meta:    "In: " + page.Name,
					Type:    models.NotificationTypePending,
					Icon:    tt.Icon,
					Date:    now,
				})
			}
		}
	case "dashboard.html":
		if content.Tasks == nil {
			return nil
		}
		for _, task := range content.Tasks.Items {
			if task.Completed {
				continue
			}
			out = append(out, models.Notification{
				ID:      models.NotificationID(models.NotificationTemplateBoard, page.ID, string(task.ID)),
				Message: fmt.Sprintf("To-do in Student Dashboard: %q.", task.Text),
				Meta:    "In: " + page.Name,
				Type:    models.NotificationTypePending,
				Icon:    tt.Icon,
				Date:    now,
			})
		}
	case "shopping-cart.html":
		for _, item := range content.Items {
			if item.Purchased {
				continue
			}
			out = append(out, models.Notification{
				ID:      models.NotificationID(models.NotificationTemplateShopping, page.ID, string(item.ID)),
				Message: fmt.Sprintf("Unchecked shopping item: %q.", item.Name),
				Meta:    "In: " + page.Name,
				Type:    models.NotificationTypePending,
				Icon:    tt.Icon,
				Date:    now,
			})
		}
	}
	return out
}
