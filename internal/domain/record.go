package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned when merging records of different kinds.
	ErrTypeMismatch = errors.New("record type mismatch")

	// ErrUnknownKind is returned for a record kind outside weather, hourly and daily.
	ErrUnknownKind = errors.New("unknown record kind")
)

// Kind names a record type on the wire.
type Kind string

const (
	KindWeather Kind = "weather"
	KindHourly  Kind = "hourly"
	KindDaily   Kind = "daily"
)

// ParseKind validates a wire kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindWeather, KindHourly, KindDaily:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Record is implemented by WeatherObservation, HourlyIndexRecord and
// DailyIndexRecord. Implementations are value types.
type Record interface {
	Kind() Kind
	// Values returns the specified data fields keyed by wire name.
	Values() map[string]float64
	// Complete reports whether every data field of the type is specified.
	Complete() bool
	// Derivable lists the unspecified fields whose inputs are all present.
	Derivable() []string
}

// Merge combines two records of the same kind with the overlay-wins rule.
// Records of different kinds are never coerced; the error wraps ErrTypeMismatch.
func Merge(base, overlay Record) (Record, error) {
	switch b := base.(type) {
	case WeatherObservation:
		if o, ok := overlay.(WeatherObservation); ok {
			return b.Merge(o), nil
		}
	case HourlyIndexRecord:
		if o, ok := overlay.(HourlyIndexRecord); ok {
			return b.Merge(o), nil
		}
	case DailyIndexRecord:
		if o, ok := overlay.(DailyIndexRecord); ok {
			return b.Merge(o), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot merge %s into %s", ErrTypeMismatch, kindOf(overlay), kindOf(base))
}

// RecordsEqual compares two records of any kind by presence and specified values.
func RecordsEqual(a, b Record) bool {
	switch x := a.(type) {
	case WeatherObservation:
		y, ok := b.(WeatherObservation)
		return ok && x.Equal(y)
	case HourlyIndexRecord:
		y, ok := b.(HourlyIndexRecord)
		return ok && x.Equal(y)
	case DailyIndexRecord:
		y, ok := b.(DailyIndexRecord)
		return ok && x.Equal(y)
	default:
		return false
	}
}

func kindOf(r Record) string {
	if r == nil {
		return "<nil>"
	}
	return string(r.Kind())
}
