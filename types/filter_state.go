package types

// Checkbox filter constraints. An empty constraint means "all".
const (
	CheckboxFilterChecked   = "checked"
	CheckboxFilterUnchecked = "unchecked"
)

// SortState holds the active sort column and direction for an editor session.
type SortState struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

// FilterState is the ephemeral per-session filter/sort/search state driving
// the row pipeline. It is never persisted.
type FilterState struct {
	Filters map[string]string `json:"filters"`
	Sort    SortState         `json:"sort"`
	Search  string            `json:"search"`
}

// NewFilterState returns an empty state with ascending default direction.
func NewFilterState() FilterState {
	return FilterState{
		Filters: map[string]string{},
		Sort:    SortState{Direction: "asc"},
	}
}

// ToggleSort selects a sort key. Selecting the key already active flips the
// direction; selecting a new key starts ascending.
func (s *FilterState) ToggleSort(key string) {
	if s.Sort.Key == key {
		if s.Sort.Direction == "asc" {
			s.Sort.Direction = "desc"
		} else {
			s.Sort.Direction = "asc"
		}
		return
	}
	s.Sort.Key = key
	s.Sort.Direction = "asc"
}
