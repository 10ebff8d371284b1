package types

import (
	"fmt"
	"strconv"
	"time"
)

// PropertyType describes one entry of the static property catalog consumed by
// the renderer and by default-value logic. Singleton types can appear at most
// once per page structure; multi-instance types may be added repeatedly with
// auto-numbered names.
type PropertyType struct {
	Tag            string   `json:"tag"`
	Icon           string   `json:"icon"`
	Input          string   `json:"input"`
	Advanced       bool     `json:"advanced"`
	Singleton      bool     `json:"singleton"`
	DefaultOptions []string `json:"defaultOptions,omitempty"`
}

// DefaultStatusOptions is the cycle order given to a new Status property.
var DefaultStatusOptions = []string{"Todo", "In Progress", "Done"}

var PropertyTypes = []PropertyType{
	{Tag: "Text", Icon: "📄", Input: "text"},
	{Tag: "Number", Icon: "#", Input: "number"},
	{Tag: "Select", Icon: "🔽", Input: "select", Singleton: true},
	{Tag: "Status", Icon: "🔆", Input: "select", Singleton: true, DefaultOptions: DefaultStatusOptions},
	{Tag: "Date", Icon: "📅", Input: "date"},
	{Tag: "Checkbox", Icon: "✅", Input: "checkbox", Singleton: true},
	{Tag: "URL", Icon: "🔗", Input: "url"},
	{Tag: "Email", Icon: "📧", Input: "email"},
	{Tag: "Formula", Icon: "∑", Input: "text", Advanced: true, Singleton: true},
	{Tag: "Relation", Icon: "↗️", Input: "text", Advanced: true, Singleton: true},
	{Tag: "Rollup", Icon: "🔍", Input: "text", Advanced: true, Singleton: true},
	{Tag: "Created time", Icon: "🕒", Input: "date", Advanced: true, Singleton: true},
	{Tag: "Last edited time", Icon: "🕒", Input: "date", Advanced: true, Singleton: true},
}

// GetPropertyType returns the catalog entry for a tag, or nil for unknown tags.
func GetPropertyType(tag string) *PropertyType {
	for i := range PropertyTypes {
		if PropertyTypes[i].Tag == tag {
			return &PropertyTypes[i]
		}
	}
	return nil
}

// IsSingletonType reports whether a property type may appear only once per
// structure. Unknown tags are treated as singletons so that toggling them can
// never multiply columns.
func IsSingletonType(tag string) bool {
	if t := GetPropertyType(tag); t != nil {
		return t.Singleton
	}
	return true
}

// DefaultValue returns the value a freshly created cell of the given type
// receives.
func (t *PropertyType) DefaultValue() interface{} {
	switch t.Tag {
	case "Checkbox":
		return false
	case "Status":
		if len(t.DefaultOptions) > 0 {
			return t.DefaultOptions[0]
		}
		return ""
	default:
		return ""
	}
}

// Render converts a stored cell value into its display representation.
// Dates render as dd-mm-yyyy, empty numbers as an em-dash placeholder,
// checkboxes as a checked/unchecked marker.
func (t *PropertyType) Render(value interface{}) string {
	switch t.Tag {
	case "Date", "Created time", "Last edited time":
		return renderDate(value)
	case "Number":
		return renderNumber(value)
	case "Checkbox":
		if b, ok := value.(bool); ok && b {
			return "☑"
		}
		return "☐"
	default:
		if value == nil {
			return ""
		}
		return fmt.Sprintf("%v", value)
	}
}

func renderDate(value interface{}) string {
	s, _ := value.(string)
	if s == "" {
		return ""
	}
	parsed, ok := ParseDateValue(s)
	if !ok {
		return s
	}
	return parsed.Format("02-01-2006")
}

func renderNumber(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "—"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		if v == "" {
			return "—"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseDateValue accepts the date encodings rows actually contain: plain
// dates (from date inputs) and full RFC 3339 timestamps.
func ParseDateValue(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
