package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"focusly-api/types"
)

// Page kinds. Template pages carry their content as an opaque document
// rendered by a template-specific view; list and table pages own a structure
// of typed properties plus row data.
const (
	KindList     = "list"
	KindTable    = "table"
	KindTemplate = "template"
)

// Page origins, i.e. which collection the document was loaded from.
const (
	OriginNative   = "native"
	OriginTemplate = "template"
)

var (
	ErrNameRequired        = errors.New("page name must be non-empty")
	ErrUnknownKind         = errors.New("unknown page kind")
	ErrUnknownPropertyType = errors.New("unknown property type")
	ErrDuplicateName       = errors.New("a property with that name already exists")
	ErrFixedProperty       = errors.New("fixed properties cannot be removed")
)

// Property is one typed column definition within a page structure.
type Property struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Fixed   bool     `json:"fixed,omitempty"`
	Options []string `json:"options,omitempty"`
	Hidden  bool     `json:"hidden,omitempty"`
}

// Row is one record of a page, keyed by property name. The keys "id" and
// "createdAt" are reserved and always present.
type Row map[string]interface{}

const (
	rowIDKey        = "id"
	rowCreatedAtKey = "createdAt"
)

// Page is the in-memory representation of a user's page document.
type Page struct {
	ID           string          `json:"id"`
	UserID       int             `json:"-"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Origin       string          `json:"origin"`
	TemplateName string          `json:"templateName,omitempty"`
	TemplateFile string          `json:"templateFile,omitempty"`
	Structure    []Property      `json:"structure,omitempty"`
	Rows         []Row           `json:"data"`
	Content      json.RawMessage `json:"content,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ID returns the row's opaque identifier.
func (r Row) ID() string {
	s, _ := r[rowIDKey].(string)
	return s
}

// CreatedAtTime parses the row's creation timestamp, zero when absent.
func (r Row) CreatedAtTime() time.Time {
	s, _ := r[rowCreatedAtKey].(string)
	if t, ok := types.ParseDateValue(s); ok {
		return t
	}
	return time.Time{}
}

// Clone returns a shallow copy of the row's field map.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the row field stringified for search matching and display.
func (r Row) String(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Bool interprets the row field as a checkbox value.
func (r Row) Bool(name string) bool {
	switch v := r[name].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

// DefaultStructure builds the initial column set for a new page.
func DefaultStructure(kind string) ([]Property, error) {
	switch kind {
	case KindList:
		return []Property{
			{Name: "Item", Type: "Text", Fixed: true},
			{Name: "Done", Type: "Checkbox"},
		}, nil
	case KindTable:
		return []Property{
			{Name: "Name", Type: "Text", Fixed: true},
			{Name: "Status", Type: "Status", Options: append([]string(nil), types.DefaultStatusOptions...)},
			{Name: "Date", Type: "Date"},
		}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// FindProperty returns the property with the given name, or nil.
func FindProperty(structure []Property, name string) *Property {
	for i := range structure {
		if structure[i].Name == name {
			return &structure[i]
		}
	}
	return nil
}

// FindPropertyByType returns the first property of the given type, or nil.
func FindPropertyByType(structure []Property, typeTag string) *Property {
	for i := range structure {
		if structure[i].Type == typeTag {
			return &structure[i]
		}
	}
	return nil
}

func hasPropertyName(structure []Property, name string) bool {
	return FindProperty(structure, name) != nil
}

// AddProperty appends a new property of the given type, auto-numbering the
// name (Type, Type 1, Type 2, ...) until it is collision free. The input
// structure is not mutated.
func AddProperty(structure []Property, typeTag string) ([]Property, Property, error) {
	pt := types.GetPropertyType(typeTag)
	if pt == nil {
		return nil, Property{}, ErrUnknownPropertyType
	}
	name := typeTag
	for counter := 1; hasPropertyName(structure, name); counter++ {
		name = fmt.Sprintf("%s %d", typeTag, counter)
	}
	prop := Property{Name: name, Type: typeTag}
	if len(pt.DefaultOptions) > 0 {
		prop.Options = append([]string(nil), pt.DefaultOptions...)
	}
	out := append(append([]Property(nil), structure...), prop)
	return out, prop, nil
}

// ToggleProperty adds a property of the given type, or for singleton types
// removes the existing one together with its row fields. It returns the new
// structure and rows plus whether the property was added.
func ToggleProperty(structure []Property, rows []Row, typeTag string) ([]Property, []Row, bool, error) {
	if types.GetPropertyType(typeTag) == nil {
		return nil, nil, false, ErrUnknownPropertyType
	}
	if types.IsSingletonType(typeTag) {
		if existing := FindPropertyByType(structure, typeTag); existing != nil {
			newStructure, newRows, err := DeleteProperty(structure, rows, existing.Name)
			if err != nil {
				return nil, nil, false, err
			}
			return newStructure, newRows, false, nil
		}
	}
	newStructure, _, err := AddProperty(structure, typeTag)
	if err != nil {
		return nil, nil, false, err
	}
	return newStructure, cloneRows(rows), true, nil
}

// RenameProperty renames a property and migrates the field key on every row.
// Renaming onto an existing name fails with ErrDuplicateName before any
// change is applied.
func RenameProperty(structure []Property, rows []Row, oldName, newName string) ([]Property, []Row, error) {
	if newName == "" {
		return nil, nil, ErrNameRequired
	}
	if oldName == newName {
		return append([]Property(nil), structure...), cloneRows(rows), nil
	}
	if hasPropertyName(structure, newName) {
		return nil, nil, ErrDuplicateName
	}
	if !hasPropertyName(structure, oldName) {
		return nil, nil, fmt.Errorf("property %q not found", oldName)
	}
	newStructure := append([]Property(nil), structure...)
	for i := range newStructure {
		if newStructure[i].Name == oldName {
			newStructure[i].Name = newName
		}
	}
	newRows := make([]Row, len(rows))
	for i, row := range rows {
		clone := row.Clone()
		if v, ok := clone[oldName]; ok {
			clone[newName] = v
			delete(clone, oldName)
		}
		newRows[i] = clone
	}
	return newStructure, newRows, nil
}

// DeleteProperty removes a property and its field from every row. Fixed
// properties are refused; deleting an absent property is a no-op.
func DeleteProperty(structure []Property, rows []Row, name string) ([]Property, []Row, error) {
	prop := FindProperty(structure, name)
	if prop == nil {
		return append([]Property(nil), structure...), cloneRows(rows), nil
	}
	if prop.Fixed {
		return nil, nil, ErrFixedProperty
	}
	newStructure := make([]Property, 0, len(structure)-1)
	for _, p := range structure {
		if p.Name != name {
			newStructure = append(newStructure, p)
		}
	}
	newRows := make([]Row, len(rows))
	for i, row := range rows {
		clone := row.Clone()
		delete(clone, name)
		newRows[i] = clone
	}
	return newStructure, newRows, nil
}

// dedupKey collapses scalar types by (type, name) and singleton-prone types
// by type alone.
func dedupKey(p Property) string {
	switch p.Type {
	case "Text", "Number", "Date":
		return p.Type + "\x00" + p.Name
	default:
		return p.Type
	}
}

// DedupStructure is the invariant-repair step run before every save: it
// keeps the first occurrence of each dedup key, drops later duplicates, and
// prunes row fields that no longer correspond to a kept property. Running it
// twice yields the same result as running it once.
func DedupStructure(structure []Property, rows []Row) ([]Property, []Row) {
	seen := make(map[string]bool, len(structure))
	kept := make([]Property, 0, len(structure))
	for _, p := range structure {
		key := dedupKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	if len(kept) == len(structure) {
		return kept, cloneRows(rows)
	}
	allowed := make(map[string]bool, len(kept)+2)
	allowed[rowIDKey] = true
	allowed[rowCreatedAtKey] = true
	for _, p := range kept {
		allowed[p.Name] = true
	}
	newRows := make([]Row, len(rows))
	for i, row := range rows {
		clone := row.Clone()
		for k := range clone {
			if !allowed[k] {
				delete(clone, k)
			}
		}
		newRows[i] = clone
	}
	return kept, newRows
}

// NewRow builds a row with one registry-default value per property.
func NewRow(structure []Property, id string, now time.Time) Row {
	row := Row{
		rowIDKey:        id,
		rowCreatedAtKey: now.UTC().Format(time.RFC3339),
	}
	for _, p := range structure {
		if pt := types.GetPropertyType(p.Type); pt != nil {
			row[p.Name] = pt.DefaultValue()
		} else {
			row[p.Name] = ""
		}
	}
	return row
}

// CycleStatus advances a cell through the property's options cyclically.
// Values outside the option list (including empty cells) advance to the
// first option.
func CycleStatus(prop Property, current string) string {
	if len(prop.Options) == 0 {
		return current
	}
	for i, opt := range prop.Options {
		if opt == current {
			return prop.Options[(i+1)%len(prop.Options)]
		}
	}
	return prop.Options[0]
}

// ValidateCellValue checks an incoming cell value against its property type.
// Nil clears the cell for any type. Number accepts a JSON number or a numeric
// string, dates must parse, and options-typed cells must hold a configured
// option.
func ValidateCellValue(prop Property, value interface{}) error {
	if value == nil {
		return nil
	}
	switch prop.Type {
	case "Checkbox":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s expects a boolean", prop.Name)
		}
	case "Number":
		switch v := value.(type) {
		case float64:
		case string:
			if v != "" {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fmt.Errorf("%s expects a number", prop.Name)
				}
			}
		default:
			return fmt.Errorf("%s expects a number", prop.Name)
		}
	case "Date", "Created time", "Last edited time":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s expects a date", prop.Name)
		}
		if s != "" {
			if _, parsed := types.ParseDateValue(s); !parsed {
				return fmt.Errorf("%s expects a date", prop.Name)
			}
		}
	case "Select", "Status":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s expects one of its options", prop.Name)
		}
		if s != "" && len(prop.Options) > 0 {
			valid := false
			for _, opt := range prop.Options {
				if opt == s {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("%s expects one of its options", prop.Name)
			}
		}
	default:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s expects text", prop.Name)
		}
	}
	return nil
}

// PruneRowFields drops row fields that are not part of the structure,
// enforcing the field-subset invariant at write boundaries.
func PruneRowFields(row Row, structure []Property) Row {
	clone := row.Clone()
	for k := range clone {
		if k == rowIDKey || k == rowCreatedAtKey {
			continue
		}
		if !hasPropertyName(structure, k) {
			delete(clone, k)
		}
	}
	return clone
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
