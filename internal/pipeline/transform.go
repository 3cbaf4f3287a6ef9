package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	"github.com/couchcryptid/fwi-merge-service/internal/observability"
)

// ErrInvalidData is returned for weather partials carrying the invalid data
// modifier when rejection is enabled.
var ErrInvalidData = errors.New("weather record flagged as invalid data")

// MergeTransformer implements Transformer by parsing each message as an
// envelope and merging it into a Store.
type MergeTransformer struct {
	store         *merge.Store
	rejectInvalid bool
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewTransformer creates a MergeTransformer. With rejectInvalid set, weather
// partials flagged as invalid data are dropped before they reach the store.
func NewTransformer(store *merge.Store, rejectInvalid bool, logger *slog.Logger, metrics *observability.Metrics) *MergeTransformer {
	return &MergeTransformer{
		store:         store,
		rejectInvalid: rejectInvalid,
		logger:        logger,
		metrics:       metrics,
	}
}

func (t *MergeTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.MergedRecord, error) {
	env, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.MergedRecord{}, err
	}

	if w, ok := env.Record.(domain.WeatherObservation); ok && w.InvalidData() {
		t.metrics.RecordsInvalid.WithLabelValues(string(env.Kind)).Inc()
		if t.rejectInvalid {
			return domain.MergedRecord{}, fmt.Errorf("%s: %w", env.Key(), ErrInvalidData)
		}
	}

	merged, err := t.store.Apply(env)
	if err != nil {
		return domain.MergedRecord{}, err
	}

	kind := string(merged.Kind)
	t.metrics.RecordsMerged.WithLabelValues(kind).Inc()
	if merged.Complete {
		t.metrics.RecordsComplete.WithLabelValues(kind).Inc()
	}
	t.metrics.StoreEntries.Set(float64(t.store.Len()))

	t.logger.Debug("partial merged",
		"key", merged.Key(),
		"source", env.Source,
		"specified", env.Record.Values(),
		"complete", merged.Complete,
		"derivable", merged.Derivable,
	)
	return merged, nil
}
