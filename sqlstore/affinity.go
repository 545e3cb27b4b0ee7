package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/sheetio"
)

// affinity is the SQLite type affinity declared for an imported column.
// Values are ordered so that a column widens from INTEGER to REAL to TEXT.
type affinity int

const (
	affinityInteger affinity = iota
	affinityReal
	affinityText
)

// String returns the declared SQL type
func (a affinity) String() string {
	switch a {
	case affinityInteger:
		return "INTEGER"
	case affinityReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// column is a table column with its inferred affinity
type column struct {
	Name     string
	Affinity affinity
}

// inferColumns picks one affinity per name from the values the records hold
// under it. Empty values do not vote; a column without any value is TEXT.
func inferColumns(names []string, records []sheetio.Record) []column {
	columns := make([]column, len(names))
	for i, name := range names {
		columns[i] = column{Name: name, Affinity: inferAffinity(records, name)}
	}
	return columns
}

func inferAffinity(records []sheetio.Record, name string) affinity {
	var (
		result affinity
		voted  bool
	)
	for _, record := range records {
		a, ok := valueAffinity(record[name])
		if !ok {
			continue
		}
		if !voted || a > result {
			result = a
		}
		voted = true
		if result == affinityText {
			break
		}
	}
	if !voted {
		return affinityText
	}
	return result
}

// valueAffinity returns the narrowest affinity that stores v without loss.
// ok is false for nil and blank strings.
func valueAffinity(v any) (a affinity, ok bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return affinityInteger, true
	case float32, float64:
		return affinityReal, true
	case string:
		return stringAffinity(val)
	case fmt.Stringer:
		return stringAffinity(val.String())
	default:
		return affinityText, true
	}
}

// stringAffinity classifies decoded text. Dates and times never parse as
// numbers, so they fall through to TEXT.
func stringAffinity(s string) (affinity, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return affinityInteger, true
	}
	// ParseFloat also accepts "inf" and "nan", which are words here.
	if _, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "iInN") {
		return affinityReal, true
	}
	return affinityText, true
}
