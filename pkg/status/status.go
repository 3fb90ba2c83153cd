/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package status assembles a point-in-time view of the kernel crash dump
// subsystem from its independent sources: the configuration database, the
// kdump tool, the boot configuration, the live kernel command line, kexec
// sysfs, systemd, and the crash storage directory.
package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
	"golang.org/x/sync/errgroup"

	"github.com/bsun-sudo/sonic-utilities/pkg/bootcfg"
	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	"github.com/bsun-sudo/sonic-utilities/pkg/coredump"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
	"github.com/bsun-sudo/sonic-utilities/pkg/reconcile"
	"github.com/bsun-sudo/sonic-utilities/pkg/store"
)

const (
	ModeEnabled  = "Enabled"
	ModeDisabled = "Disabled"

	StateReady    = "Ready"
	StateNotReady = "Not Ready"
)

// readyMarker appears in the kdump tool's status output once a capture
// kernel is loaded.
const readyMarker = "ready to kdump"

// Snapshot is the collected state of the crash dump subsystem.
type Snapshot struct {
	AdministrativeMode    string `json:"administrativeMode" yaml:"administrativeMode"`
	OperationalState      string `json:"operationalState" yaml:"operationalState"`
	MemorySpec            string `json:"memorySpec" yaml:"memorySpec"`
	ConfiguredCrashKernel string `json:"configuredCrashKernel,omitempty" yaml:"configuredCrashKernel,omitempty"`
	ActiveCrashKernel     string `json:"activeCrashKernel,omitempty" yaml:"activeCrashKernel,omitempty"`
	ReservedMemoryBytes   uint64 `json:"reservedMemoryBytes" yaml:"reservedMemoryBytes"`
	MaxDumps              int    `json:"maxDumps" yaml:"maxDumps"`
	ServiceState          string `json:"serviceState" yaml:"serviceState"`
	RebootRequired        bool   `json:"rebootRequired" yaml:"rebootRequired"`
	StoredRecords         int    `json:"storedRecords" yaml:"storedRecords"`
}

// Collector runs the status probes in parallel and merges the results.
type Collector struct {
	cfg          *config.Config
	runner       *hostexec.Runner
	source       *store.Source
	rec          *reconcile.Reconciler
	lister       *coredump.Lister
	serviceState func(ctx context.Context, unit string) string
}

// Option adjusts a Collector.
type Option func(*Collector)

// WithServiceStateFunc replaces the systemd probe.
func WithServiceStateFunc(f func(ctx context.Context, unit string) string) Option {
	return func(c *Collector) { c.serviceState = f }
}

func NewCollector(cfg *config.Config, runner *hostexec.Runner, opts ...Option) *Collector {
	c := &Collector{
		cfg:          cfg,
		runner:       runner,
		source:       store.NewSource(cfg, runner),
		rec:          reconcile.New(cfg),
		lister:       coredump.NewLister(cfg, runner),
		serviceState: systemdServiceState,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect gathers the snapshot for the given image's boot entry. Probes
// that only degrade the report (systemd, sysfs, unreadable boot entry)
// fall back to neutral values; a failing crash-record scan aborts.
func (c *Collector) Collect(ctx context.Context, image string) (*Snapshot, error) {
	slog.Debug("collecting kdump status", slog.String("image", image))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	snap := &Snapshot{}
	var configured string

	g.Go(func() error {
		mode := ModeDisabled
		if c.source.AdminEnabled(ctx) {
			mode = ModeEnabled
		}
		mu.Lock()
		snap.AdministrativeMode = mode
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		memory := c.source.Memory(ctx)
		dumps := c.source.NumDumps(ctx)
		mu.Lock()
		snap.MemorySpec = memory
		snap.MaxDumps = dumps
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		state := StateNotReady
		res := c.runner.Run(ctx, c.cfg.KdumpConfigCmd, "status")
		if !res.Failed() {
			for _, line := range res.Stdout {
				if strings.Contains(line, readyMarker) {
					state = StateReady
					break
				}
			}
		}
		mu.Lock()
		snap.OperationalState = state
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		live, _ := bootcfg.CrashKernelFromFile(c.cfg.ProcCmdlineFile)
		reserved := c.reservedBytes()
		mu.Lock()
		snap.ActiveCrashKernel = live
		snap.ReservedMemoryBytes = reserved
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		state := c.serviceState(ctx, c.cfg.ServiceUnit)
		mu.Lock()
		snap.ServiceState = state
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		records, err := c.lister.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to scan crash records: %w", err)
		}
		mu.Lock()
		snap.StoredRecords = len(records)
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		spec, _, err := c.rec.ConfiguredCrashKernel(ctx, image)
		if err != nil {
			if kderrors.IsCode(err, kderrors.ErrCodeNotFound) || kderrors.IsCode(err, kderrors.ErrCodeIO) {
				slog.Warn("boot configuration is unreadable", slog.String("error", err.Error()))
				return nil
			}
			return err
		}
		mu.Lock()
		configured = spec
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.ConfiguredCrashKernel = configured
	snap.RebootRequired = configured != snap.ActiveCrashKernel
	return snap, nil
}

func (c *Collector) reservedBytes() uint64 {
	data, err := os.ReadFile(c.cfg.CrashSizeFile)
	if err != nil {
		slog.Warn("failed to read the reserved crash kernel size", slog.String("error", err.Error()))
		return 0
	}
	value := strings.TrimSpace(string(data))
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		slog.Warn("malformed reserved crash kernel size", slog.String("value", value))
		return 0
	}
	return n
}

// systemdServiceState asks the system bus for the unit's ActiveState. Any
// failure degrades to "unknown": status must still render on systems
// without a reachable systemd.
func systemdServiceState(ctx context.Context, unit string) string {
	conn, err := dbus.NewWithContext(ctx)
	if err != nil {
		slog.Debug("systemd bus unavailable", slog.String("error", err.Error()))
		return "unknown"
	}
	defer conn.Close()

	prop, err := conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		slog.Debug("failed to query unit state",
			slog.String("unit", unit),
			slog.String("error", err.Error()))
		return "unknown"
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return "unknown"
	}
	return state
}

// Render writes the operator-facing plain-text layout.
func (s *Snapshot) Render(w io.Writer) {
	configured := s.ConfiguredCrashKernel
	if configured == "" {
		configured = "none"
	}
	active := s.ActiveCrashKernel
	if active == "" {
		active = "none"
	}
	fmt.Fprintf(w, "Kdump administrative mode:  %s\n", s.AdministrativeMode)
	fmt.Fprintf(w, "Kdump operational state:    %s\n", s.OperationalState)
	fmt.Fprintf(w, "Kdump memory reservation:   %s\n", s.MemorySpec)
	fmt.Fprintf(w, "Configured crash kernel:    %s\n", configured)
	fmt.Fprintf(w, "Active crash kernel:        %s\n", active)
	fmt.Fprintf(w, "Reserved crash memory:      %s\n", HumanSize(s.ReservedMemoryBytes))
	fmt.Fprintf(w, "Maximum stored core files:  %d\n", s.MaxDumps)
	fmt.Fprintf(w, "Kdump service state:        %s\n", s.ServiceState)
	fmt.Fprintf(w, "Reboot required:            %v\n", s.RebootRequired)
	fmt.Fprintf(w, "Stored kernel core files:   %d\n", s.StoredRecords)
}

// HumanSize renders a byte count with a binary unit suffix.
func HumanSize(bytes uint64) string {
	switch {
	case bytes >= 1<<30:
		return fmt.Sprintf("%.1fGB", float64(bytes)/(1<<30))
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(bytes)/(1<<10))
	}
	return fmt.Sprintf("%dB", bytes)
}
