package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/fwi-merge-service/internal/merge"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Sink names accepted in SINKS.
const (
	SinkKafka  = "kafka"
	SinkInflux = "influx"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Merge configuration.
	MergePolicy    merge.Policy
	MergeCacheSize int
	RejectInvalid  bool

	Sinks []string

	// InfluxDB sink configuration, used when SINKS contains "influx".
	InfluxAddr     string
	InfluxUsername string
	InfluxPassword string
	InfluxDatabase string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	policy, err := merge.ParsePolicy(sharedcfg.EnvOrDefault("MERGE_POLICY", string(merge.PolicyArrival)))
	if err != nil {
		return nil, fmt.Errorf("invalid MERGE_POLICY: %w", err)
	}

	cacheSize, err := parseMergeCacheSize()
	if err != nil {
		return nil, err
	}

	sinks, err := parseSinks(sharedcfg.EnvOrDefault("SINKS", SinkKafka))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "fire-weather-partials"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "fire-weather-merged"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "fwi-merge"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MergePolicy:    policy,
		MergeCacheSize: cacheSize,
		RejectInvalid:  os.Getenv("REJECT_INVALID") == "true",
		Sinks:          sinks,

		InfluxAddr:     os.Getenv("INFLUX_ADDR"),
		InfluxUsername: os.Getenv("INFLUX_USERNAME"),
		InfluxPassword: os.Getenv("INFLUX_PASSWORD"),
		InfluxDatabase: sharedcfg.EnvOrDefault("INFLUX_DATABASE", "fireweather"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.HasSink(SinkKafka) && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.HasSink(SinkInflux) && cfg.InfluxAddr == "" {
		return nil, errors.New("SINKS includes influx but INFLUX_ADDR is not set")
	}

	return cfg, nil
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	return slices.Contains(c.Sinks, name)
}

func parseMergeCacheSize() (int, error) {
	s := os.Getenv("MERGE_CACHE_SIZE")
	if s == "" {
		return 10000, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid MERGE_CACHE_SIZE")
	}
	return n, nil
}

func parseSinks(s string) ([]string, error) {
	var sinks []string
	for part := range strings.SplitSeq(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || slices.Contains(sinks, name) {
			continue
		}
		if name != SinkKafka && name != SinkInflux {
			return nil, fmt.Errorf("invalid SINKS: unknown sink %q", name)
		}
		sinks = append(sinks, name)
	}
	if len(sinks) == 0 {
		return nil, errors.New("SINKS must name at least one sink")
	}
	return sinks, nil
}
