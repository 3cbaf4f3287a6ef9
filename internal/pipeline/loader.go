package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	"github.com/couchcryptid/fwi-merge-service/internal/observability"
)

// Sink is a named BatchLoader.
type Sink struct {
	Name   string
	Loader BatchLoader
}

// MultiLoader writes every batch to each sink in turn. A batch counts as
// loaded only when all sinks accept it. The pipeline retries a failed batch
// in full, so sinks must be idempotent per record key.
type MultiLoader struct {
	sinks   []Sink
	metrics *observability.Metrics
}

// NewMultiLoader creates a MultiLoader over the given sinks.
func NewMultiLoader(metrics *observability.Metrics, sinks ...Sink) *MultiLoader {
	return &MultiLoader{sinks: sinks, metrics: metrics}
}

func (m *MultiLoader) LoadBatch(ctx context.Context, records []domain.MergedRecord) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Loader.LoadBatch(ctx, records); err != nil {
			m.metrics.SinkErrors.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}
