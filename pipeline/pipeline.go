// Package pipeline transforms a page's raw row set into the ordered,
// filtered subset handed to the renderer. Apply is pure: it never mutates
// its inputs and can be re-run on every state change.
package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"focusly-api/models"
	"focusly-api/types"
)

// Apply runs search, filters, then sort over rows against the page structure
// and the session's filter state. The returned slice holds the same row maps
// in a new order; callers must write edits back to the unfiltered data.
func Apply(rows []models.Row, structure []models.Property, state types.FilterState) []models.Row {
	out := make([]models.Row, 0, len(rows))
	out = append(out, rows...)

	if term := strings.ToLower(strings.TrimSpace(state.Search)); term != "" {
		out = searchRows(out, structure, term)
	}
	for name, constraint := range state.Filters {
		if constraint == "" {
			continue
		}
		out = filterRows(out, structure, name, constraint)
	}
	if state.Sort.Key != "" {
		sortRows(out, structure, state.Sort)
	}
	return out
}

func visibleNames(structure []models.Property) []string {
	names := make([]string, 0, len(structure))
	for _, p := range structure {
		if !p.Hidden {
			names = append(names, p.Name)
		}
	}
	return names
}

func searchRows(rows []models.Row, structure []models.Property, term string) []models.Row {
	names := visibleNames(structure)
	matched := rows[:0]
	for _, row := range rows {
		for _, name := range names {
			if strings.Contains(strings.ToLower(row.String(name)), term) {
				matched = append(matched, row)
				break
			}
		}
	}
	return matched
}

func filterRows(rows []models.Row, structure []models.Property, name, constraint string) []models.Row {
	prop := models.FindProperty(structure, name)
	if prop == nil || prop.Hidden {
		return rows
	}
	matched := rows[:0]
	for _, row := range rows {
		if matchesConstraint(row, *prop, constraint) {
			matched = append(matched, row)
		}
	}
	return matched
}

// matchesConstraint applies the per-type filter semantics: checkbox columns
// use the checked/unchecked tri-state, everything else is equality on the
// stringified value.
func matchesConstraint(row models.Row, prop models.Property, constraint string) bool {
	if prop.Type == "Checkbox" {
		switch constraint {
		case types.CheckboxFilterChecked:
			return row.Bool(prop.Name)
		case types.CheckboxFilterUnchecked:
			return !row.Bool(prop.Name)
		default:
			return true
		}
	}
	return row.String(prop.Name) == constraint
}

func sortRows(rows []models.Row, structure []models.Property, s types.SortState) {
	prop := models.FindProperty(structure, s.Key)
	desc := s.Direction == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		less := compareValues(rows[i], rows[j], s.Key, prop)
		if desc {
			return less > 0
		}
		return less < 0
	})
}

// compareValues orders two row values by the property's natural type:
// numeric for Number, chronological for Date-like types, case-insensitive
// lexicographic otherwise.
func compareValues(a, b models.Row, key string, prop *models.Property) int {
	av, bv := a.String(key), b.String(key)
	if prop != nil {
		switch prop.Type {
		case "Number":
			af, aerr := strconv.ParseFloat(av, 64)
			bf, berr := strconv.ParseFloat(bv, 64)
			if aerr == nil && berr == nil {
				switch {
				case af < bf:
					return -1
				case af > bf:
					return 1
				default:
					return 0
				}
			}
			// Unparsable cells sort after numeric ones.
			if aerr == nil {
				return -1
			}
			if berr == nil {
				return 1
			}
		case "Date", "Created time", "Last edited time":
			at, aok := types.ParseDateValue(av)
			bt, bok := types.ParseDateValue(bv)
			if aok && bok {
				switch {
				case at.Before(bt):
					return -1
				case at.After(bt):
					return 1
				default:
					return 0
				}
			}
			if aok {
				return -1
			}
			if bok {
				return 1
			}
		}
	}
	return strings.Compare(strings.ToLower(av), strings.ToLower(bv))
}
