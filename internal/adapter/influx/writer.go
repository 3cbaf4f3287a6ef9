// Package influx writes merged fire weather records to InfluxDB as points.
package influx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/config"
	"github.com/couchcryptid/fwi-merge-service/internal/domain"
	client "github.com/influxdata/influxdb/client/v2"
)

// pointClient is the subset of client.Client used by Writer.
type pointClient interface {
	Ping(timeout time.Duration) (time.Duration, string, error)
	Write(bp client.BatchPoints) error
	Close() error
}

// Writer stores merged records in InfluxDB, one measurement per record kind.
// It implements pipeline.BatchLoader.
type Writer struct {
	client   pointClient
	database string
	logger   *slog.Logger
}

// NewWriter creates an HTTP InfluxDB client for the configured server.
func NewWriter(cfg *config.Config, logger *slog.Logger) (*Writer, error) {
	c, err := client.NewHTTPClient(client.HTTPConfig{
		Addr:     cfg.InfluxAddr,
		Username: cfg.InfluxUsername,
		Password: cfg.InfluxPassword,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create influx client: %w", err)
	}
	return &Writer{client: c, database: cfg.InfluxDatabase, logger: logger}, nil
}

// CheckReadiness pings the server.
func (w *Writer) CheckReadiness(_ context.Context) error {
	if _, _, err := w.client.Ping(time.Second); err != nil {
		return fmt.Errorf("influx ping: %w", err)
	}
	return nil
}

// LoadBatch writes the records as a single batch. Records without any
// specified field carry nothing to store and are skipped.
func (w *Writer) LoadBatch(_ context.Context, records []domain.MergedRecord) error {
	bp, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database:  w.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}

	for _, rec := range records {
		pt, err := pointFromRecord(rec)
		if err != nil {
			return err
		}
		if pt == nil {
			w.logger.Debug("skipping record with no fields", "key", rec.Key())
			continue
		}
		bp.AddPoint(pt)
	}
	if len(bp.Points()) == 0 {
		return nil
	}
	return w.client.Write(bp)
}

func (w *Writer) Close() error {
	return w.client.Close()
}

// pointFromRecord converts a merged record to a point, or nil when the record
// has no specified fields.
func pointFromRecord(rec domain.MergedRecord) (*client.Point, error) {
	values := rec.Record.Values()
	if len(values) == 0 {
		return nil, nil
	}

	fields := make(map[string]any, len(values)+3)
	for name, v := range values {
		fields[name] = v
	}
	if w, ok := rec.Record.(domain.WeatherObservation); ok {
		fields["interpolated"] = w.Interpolated()
		fields["ensemble"] = w.Ensemble()
		fields["invalid_data"] = w.InvalidData()
	}
	tags := map[string]string{
		"station": rec.Station,
		"kind":    string(rec.Kind),
	}

	pt, err := client.NewPoint(string(rec.Kind), tags, fields, rec.Time)
	if err != nil {
		return nil, fmt.Errorf("build point %s: %w", rec.Key(), err)
	}
	return pt, nil
}
