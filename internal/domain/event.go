package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidEnvelope is returned when a message lacks the fields needed to key it.
var ErrInvalidEnvelope = errors.New("invalid envelope")

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Source identifies how a partial record was produced.
type Source string

const (
	SourceObservation Source = "observation"
	SourceComputed    Source = "computed"
	SourceSpatial     Source = "spatial"
	SourceTemporal    Source = "temporal"
	SourceEnsemble    Source = "ensemble"
	// SourceUnknown stands in for partials published without a source.
	SourceUnknown Source = "unknown"
)

// Rank orders sources by trustworthiness, lowest first. Unknown sources rank
// below every known one.
func (s Source) Rank() int {
	switch s {
	case SourceEnsemble:
		return 1
	case SourceTemporal:
		return 2
	case SourceSpatial:
		return 3
	case SourceComputed:
		return 4
	case SourceObservation:
		return 5
	default:
		return 0
	}
}

// Envelope is one partial record for a station and time, as published by a
// producer.
type Envelope struct {
	Kind          Kind
	Station       string
	Time          time.Time
	Source        Source
	Interpolation InterpolationFlags
	// Attributes carries grid lookups describing the station cell, keyed by
	// the grid engine's attribute ids.
	Attributes map[GridAttribute]float64
	Record     Record
}

type envelopeJSON struct {
	Kind          string                    `json:"kind"`
	Station       string                    `json:"station"`
	Time          time.Time                 `json:"time"`
	Source        Source                    `json:"source,omitempty"`
	Interpolation InterpolationFlags        `json:"interpolation,omitempty"`
	Attributes    map[GridAttribute]float64 `json:"attributes,omitempty"`
	Record        json.RawMessage           `json:"record"`
}

// Key identifies the merge slot of the envelope.
func (e Envelope) Key() string {
	return RecordKey(e.Kind, e.Station, e.Time)
}

// RecordKey builds the merge key for a kind, station and time. Sub-second
// times key separately.
func RecordKey(kind Kind, station string, t time.Time) string {
	return string(kind) + "|" + station + "|" + t.UTC().Format(time.RFC3339Nano)
}

// ParseRawEvent decodes the value of a RawEvent into an Envelope.
func ParseRawEvent(raw RawEvent) (Envelope, error) {
	env, err := ParseEnvelope(raw.Value)
	if err != nil {
		return Envelope{}, fmt.Errorf("parse raw event: %w", err)
	}
	return env, nil
}

// ParseEnvelope decodes and validates an envelope. Interpolation flags and an
// ensemble source are folded into the modifier bits of weather records.
func ParseEnvelope(data []byte) (Envelope, error) {
	var j envelopeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return Envelope{}, err
	}

	kind, err := ParseKind(j.Kind)
	if err != nil {
		return Envelope{}, err
	}
	station := strings.TrimSpace(j.Station)
	if station == "" {
		return Envelope{}, fmt.Errorf("%w: station is required", ErrInvalidEnvelope)
	}
	if j.Time.IsZero() {
		return Envelope{}, fmt.Errorf("%w: time is required", ErrInvalidEnvelope)
	}
	if len(j.Record) == 0 || bytes.Equal(bytes.TrimSpace(j.Record), []byte("null")) {
		return Envelope{}, fmt.Errorf("%w: record is required", ErrInvalidEnvelope)
	}

	env := Envelope{
		Kind:          kind,
		Station:       station,
		Time:          j.Time.UTC(),
		Source:        Source(strings.ToLower(strings.TrimSpace(string(j.Source)))),
		Interpolation: j.Interpolation,
		Attributes:    j.Attributes,
	}

	if env.Source == "" {
		env.Source = SourceUnknown
	}

	switch kind {
	case KindWeather:
		var w WeatherObservation
		if err := json.Unmarshal(j.Record, &w); err != nil {
			return Envelope{}, fmt.Errorf("decode weather record: %w", err)
		}
		MarkInterpolated(&w, env.Interpolation)
		if env.Source == SourceEnsemble {
			w.SetSpecified(WeatherEnsemble)
		}
		env.Record = w
	case KindHourly:
		var h HourlyIndexRecord
		if err := json.Unmarshal(j.Record, &h); err != nil {
			return Envelope{}, fmt.Errorf("decode hourly record: %w", err)
		}
		env.Record = h
	case KindDaily:
		var d DailyIndexRecord
		if err := json.Unmarshal(j.Record, &d); err != nil {
			return Envelope{}, fmt.Errorf("decode daily record: %w", err)
		}
		env.Record = d
	}
	return env, nil
}

// MarshalJSON encodes the envelope in its wire form.
func (e Envelope) MarshalJSON() ([]byte, error) {
	rec, err := json.Marshal(e.Record)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelopeJSON{
		Kind:          string(e.Kind),
		Station:       e.Station,
		Time:          e.Time,
		Source:        e.Source,
		Interpolation: e.Interpolation,
		Attributes:    e.Attributes,
		Record:        rec,
	})
}

// MergedRecord is the merged snapshot for one key, destined for the sinks.
type MergedRecord struct {
	Kind       Kind                      `json:"kind"`
	Station    string                    `json:"station"`
	Time       time.Time                 `json:"time"`
	Record     Record                    `json:"record"`
	Sources    []Source                  `json:"sources"`
	Attributes map[GridAttribute]float64 `json:"attributes,omitempty"`
	Complete   bool                      `json:"complete"`
	Invalid    bool                      `json:"invalid,omitempty"`
	Derivable  []string                  `json:"derivable,omitempty"`
	MergedAt   time.Time                 `json:"merged_at"`
}

// NewMergedRecord stamps a merged record with its derived flags and the
// current time.
func NewMergedRecord(kind Kind, station string, t time.Time, rec Record, sources []Source, attrs map[GridAttribute]float64) MergedRecord {
	m := MergedRecord{
		Kind:       kind,
		Station:    station,
		Time:       t,
		Record:     rec,
		Sources:    sources,
		Attributes: attrs,
		Complete:   rec.Complete(),
		Derivable:  rec.Derivable(),
		MergedAt:   clock.Now().UTC(),
	}
	if w, ok := rec.(WeatherObservation); ok {
		m.Invalid = w.InvalidData()
	}
	return m
}

// Key identifies the merge slot of the record.
func (m MergedRecord) Key() string {
	return RecordKey(m.Kind, m.Station, m.Time)
}
