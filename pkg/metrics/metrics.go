// Package metrics exports the kdump status snapshot as gauges for the
// node-exporter textfile collector.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bsun-sudo/sonic-utilities/pkg/status"
)

// Exporter owns a dedicated registry so the textfile carries only kdump
// gauges, not process metrics.
type Exporter struct {
	registry *prometheus.Registry

	adminEnabled     prometheus.Gauge
	operationalReady prometheus.Gauge
	reservedBytes    prometheus.Gauge
	maxDumps         prometheus.Gauge
	rebootRequired   prometheus.Gauge
	storedRecords    prometheus.Gauge
}

func NewExporter() *Exporter {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Exporter{
		registry: registry,
		adminEnabled: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_admin_enabled",
			Help: "Whether kdump is administratively enabled",
		}),
		operationalReady: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_operational_ready",
			Help: "Whether a capture kernel is loaded and ready",
		}),
		reservedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_reserved_memory_bytes",
			Help: "Crash kernel memory reserved by the running kernel",
		}),
		maxDumps: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_max_dumps",
			Help: "Configured maximum number of stored kernel core files",
		}),
		rebootRequired: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_reboot_required",
			Help: "Whether the configured crash kernel differs from the active one",
		}),
		storedRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sonic_kdump_stored_records",
			Help: "Number of crash records in the storage directory",
		}),
	}
}

// Export records the snapshot and writes the textfile. An empty path
// disables the export.
func (e *Exporter) Export(path string, snap *status.Snapshot) error {
	if path == "" {
		return nil
	}

	e.adminEnabled.Set(boolGauge(snap.AdministrativeMode == status.ModeEnabled))
	e.operationalReady.Set(boolGauge(snap.OperationalState == status.StateReady))
	e.reservedBytes.Set(float64(snap.ReservedMemoryBytes))
	e.maxDumps.Set(float64(snap.MaxDumps))
	e.rebootRequired.Set(boolGauge(snap.RebootRequired))
	e.storedRecords.Set(float64(snap.StoredRecords))

	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	slog.Debug("exported kdump metrics", slog.String("path", path))
	return nil
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
