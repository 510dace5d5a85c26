package sheet

import (
	"strconv"
	"strings"

	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/memberimport/domain"
)

// yearMarker selects which slot of a PreAllowance a column feeds.
type yearMarker int

const (
	yearNone yearMarker = iota
	yearCurrent
	yearNext
)

// Decoder reconstructs per-type allowance values from bracket-annotated
// column headers of the form "<Type Name> (<unit>) <current|next>".
type Decoder struct {
	types []allowancedomain.AllowanceType
}

func NewDecoder(types []allowancedomain.AllowanceType) *Decoder {
	return &Decoder{types: types}
}

// Accumulator collects PreAllowances keyed by resolved type id, preserving
// first-seen column order.
type Accumulator struct {
	byID  map[string]*domain.PreAllowance
	order []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{byID: map[string]*domain.PreAllowance{}}
}

// List returns the accumulated allowances in first-seen order.
func (a *Accumulator) List() []domain.PreAllowance {
	out := make([]domain.PreAllowance, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	return out
}

// Decode parses one header/cell pair into the accumulator. Headers without a
// "current" or "next" marker are ignored without error. Repeated headers for
// the same type and year overwrite the previous value.
func (d *Decoder) Decode(acc *Accumulator, header, cell string) {
	name, unit, ok := splitHeader(header)
	if !ok {
		return
	}
	marker := findYearMarker(header)
	if marker == yearNone {
		return
	}

	// Exact trimmed-name match against the reference types; when nothing
	// matches, the decoded name itself stands in for the id. That fallback
	// can produce allowance entries with no real type behind them.
	typeID := name
	var matched *allowancedomain.AllowanceType
	for i := range d.types {
		if strings.TrimSpace(d.types[i].Name) == name {
			matched = &d.types[i]
			typeID = d.types[i].ID.String()
			break
		}
	}

	value := parseCell(unit, cell, matched)

	entry, exists := acc.byID[typeID]
	if !exists {
		entry = &domain.PreAllowance{TypeID: typeID, Name: name}
		acc.byID[typeID] = entry
		acc.order = append(acc.order, typeID)
	}
	switch marker {
	case yearCurrent:
		entry.CurrentYear = value
	case yearNext:
		entry.NextYear = value
	}
}

// splitHeader extracts the type name (everything before the last "(") and
// the unit (between the last "(" and the following ")").
func splitHeader(header string) (name, unit string, ok bool) {
	open := strings.LastIndex(header, "(")
	if open < 0 {
		return "", "", false
	}
	closing := strings.Index(header[open:], ")")
	if closing < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(header[:open])
	unit = strings.TrimSpace(header[open+1 : open+closing])
	if name == "" {
		return "", "", false
	}
	return name, unit, true
}

// findYearMarker returns the year slot named first in the header, comparing
// case-insensitively anywhere in the string.
func findYearMarker(header string) yearMarker {
	lower := strings.ToLower(header)
	current := strings.Index(lower, "current")
	next := strings.Index(lower, "next")
	switch {
	case current < 0 && next < 0:
		return yearNone
	case next < 0, current >= 0 && current < next:
		return yearCurrent
	default:
		return yearNext
	}
}

// parseCell converts the raw cell by unit: day values parse as plain
// numbers; hour values parse as a time of day converted to total minutes.
// Anything else yields nil.
func parseCell(unit, cell string, matched *allowancedomain.AllowanceType) *float64 {
	effective := strings.ToLower(strings.TrimSpace(unit))
	if matched != nil {
		effective = strings.ToLower(string(matched.Unit))
	}
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	switch effective {
	case string(allowancedomain.UnitDays):
		parsed, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil
		}
		return &parsed
	case string(allowancedomain.UnitHours):
		minutes, ok := parseTimeOfDay(cell)
		if !ok {
			return nil
		}
		return &minutes
	default:
		return nil
	}
}

// parseTimeOfDay reads "H:MM" or "H:MM:SS" and returns hours*60 + minutes.
func parseTimeOfDay(cell string) (float64, bool) {
	parts := strings.Split(cell, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return float64(hours*60 + minutes), true
}
