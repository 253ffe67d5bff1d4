// Package telemetry ships anonymous usage points to InfluxDB. It is
// fully optional: when disabled or unreachable every emit is a cheap
// in-memory operation and the session never waits on it.
package telemetry

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/config"
	"github.com/sebvdn/carte-gpx/internal/queue"
)

// pending points are capped so a permanently offline server cannot
// grow memory without bound
const maxPending = 1000

// Manager buffers and writes usage points.
type Manager struct {
	cfg    config.InfluxConfig
	log    zerolog.Logger
	client influxdb2.Client
	writer influxdb2_api.WriteAPI

	valid   bool
	pending *queue.Queue[*influxdb2_write.Point]
}

// NewManager creates a telemetry manager. Points emitted before
// Connect are buffered and flushed once the connection is up.
func NewManager(cfg config.InfluxConfig, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		log:     log,
		pending: queue.New[*influxdb2_write.Point](),
	}
}

// Connect establishes the InfluxDB connection and flushes buffered
// points. A disabled or unreachable server is not an error, telemetry
// just stays off.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}

	m.client = influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", m.cfg.Protocol, m.cfg.Host, m.cfg.Port),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(100).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(ctx)
	if err != nil || !running {
		m.log.Warn().Err(err).Msg("InfluxDB unreachable, telemetry disabled")
		m.client.Close()
		m.client = nil
		return nil
	}

	m.writer = m.client.WriteAPI(m.cfg.Org, m.cfg.Bucket)
	errorsCh := m.writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			m.log.Error().Err(writeErr).Msg("Error sending telemetry to InfluxDB")
		}
	}()

	m.valid = true
	for _, point := range m.pending.Drain() {
		m.writer.WritePoint(point)
	}
	m.log.Info().Msg("Telemetry client initialized")
	return nil
}

func (m *Manager) emit(point *influxdb2_write.Point) {
	if !m.cfg.Enabled {
		return
	}
	if !m.valid {
		if m.pending.Len() < maxPending {
			m.pending.Push(point)
		}
		return
	}
	m.writer.WritePoint(point)
}

// SessionOpened records a session start with its restored marker count.
func (m *Manager) SessionOpened(markers int) {
	m.emit(influxdb2.NewPoint(
		"session_open",
		nil,
		map[string]any{"markers": markers},
		time.Now(),
	))
}

// MarkerCreated records a marker creation.
func (m *Manager) MarkerCreated() {
	m.emit(influxdb2.NewPoint(
		"marker_created",
		nil,
		map[string]any{"count": 1},
		time.Now(),
	))
}

// ExportCompleted records a finished export.
func (m *Manager) ExportCompleted(format string, markers int) {
	m.emit(influxdb2.NewPoint(
		"export",
		map[string]string{"format": format},
		map[string]any{"markers": markers},
		time.Now(),
	))
}

// Close flushes and shuts down the client.
func (m *Manager) Close() {
	if m.client == nil {
		return
	}
	m.writer.Flush()
	m.client.Close()
}
