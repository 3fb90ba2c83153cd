/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package reconcile implements the state machine that keeps the bootloader
// command line and the kdump tool configuration aligned with the requested
// administrative state. A "changed" result means a reboot is required for
// the requested state to become active, which is broader than the boot file
// having been rewritten: a pending reservation that is not live yet also
// reports changed.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bsun-sudo/sonic-utilities/pkg/bootcfg"
	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/platform"
	"github.com/bsun-sudo/sonic-utilities/pkg/store"
)

const (
	msgUnsupportedPlatform = "Feature not supported on this platform"
	msgAlreadyEnabled      = "kdump is already enabled"
	msgAlreadyDisabled     = "kdump is already disabled"
	msgRebootRequired      = "kdump configuration changes will be applied after the system reboots"
)

// Reconciler mutates the boot entry of one image and the kdump tool
// configuration file. Operator-facing messages go to out; diagnostics go
// to the structured log.
type Reconciler struct {
	cfg  *config.Config
	tool *store.ToolConfig
	out  io.Writer
}

// Option adjusts a Reconciler.
type Option func(*Reconciler)

// WithOutput redirects operator-facing messages.
func WithOutput(w io.Writer) Option {
	return func(r *Reconciler) { r.out = w }
}

func New(cfg *config.Config, opts ...Option) *Reconciler {
	r := &Reconciler{
		cfg:  cfg,
		tool: store.NewToolConfig(cfg.KdumpToolCfgFile),
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enable reserves crash-kernel memory in the boot entry for image and
// persists USE_KDUMP=1. Whatever the boot file already holds, the enable
// flag is written; its failure is fatal independently of the file edit.
func (r *Reconciler) Enable(ctx context.Context, image, memory string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	boot := platform.Detect(r.cfg)
	if boot == platform.BootloaderUnsupported {
		fmt.Fprintln(r.out, msgUnsupportedPlatform)
		return false, nil
	}
	target := platform.CmdlineFile(r.cfg, boot, image)
	lines, err := bootcfg.ReadLines(target)
	if err != nil {
		return false, err
	}
	idx, err := r.findBootLine(boot, lines, image, target)
	if err != nil {
		return false, err
	}

	line := bootcfg.ParseCmdline(lines[idx])
	changed := false
	current, has := line.Get(bootcfg.CrashKernelKey)
	switch {
	case has && current == memory:
		live, _ := bootcfg.CrashKernelFromFile(r.cfg.ProcCmdlineFile)
		if live == memory {
			fmt.Fprintln(r.out, msgAlreadyEnabled)
		} else {
			// Reservation is recorded but not active yet.
			changed = true
		}
	default:
		line.Set(bootcfg.CrashKernelKey, memory)
		lines[idx] = line.String()
		if err := bootcfg.WriteLines(target, lines); err != nil {
			return false, err
		}
		slog.Info("updated crash kernel reservation",
			slog.String("image", image),
			slog.String("file", target),
			slog.String("memory", memory))
		changed = true
	}

	if err := r.tool.WriteEnabled(true); err != nil {
		return false, fmt.Errorf("failed to persist the kdump enable flag: %w", err)
	}
	if changed {
		fmt.Fprintln(r.out, msgRebootRequired)
	}
	return changed, nil
}

// Disable clears USE_KDUMP first, then removes the crash-kernel
// reservation from the boot entry for image.
func (r *Reconciler) Disable(ctx context.Context, image string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if err := r.tool.WriteEnabled(false); err != nil {
		return false, fmt.Errorf("failed to clear the kdump enable flag: %w", err)
	}

	boot := platform.Detect(r.cfg)
	if boot == platform.BootloaderUnsupported {
		fmt.Fprintln(r.out, msgUnsupportedPlatform)
		return false, nil
	}
	target := platform.CmdlineFile(r.cfg, boot, image)
	lines, err := bootcfg.ReadLines(target)
	if err != nil {
		return false, err
	}
	idx, err := r.findBootLine(boot, lines, image, target)
	if err != nil {
		return false, err
	}

	line := bootcfg.ParseCmdline(lines[idx])
	if !line.Has(bootcfg.CrashKernelKey) {
		fmt.Fprintln(r.out, msgAlreadyDisabled)
		return false, nil
	}
	line.Delete(bootcfg.CrashKernelKey)
	lines[idx] = line.String()
	if err := bootcfg.WriteLines(target, lines); err != nil {
		return false, err
	}
	slog.Info("removed crash kernel reservation",
		slog.String("image", image),
		slog.String("file", target))
	fmt.Fprintln(r.out, msgRebootRequired)
	return true, nil
}

// ConfiguredCrashKernel reports the crash-kernel spec recorded in the boot
// entry for image, if any. Unsupported platforms report absent.
func (r *Reconciler) ConfiguredCrashKernel(ctx context.Context, image string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	boot := platform.Detect(r.cfg)
	if boot == platform.BootloaderUnsupported {
		return "", false, nil
	}
	target := platform.CmdlineFile(r.cfg, boot, image)
	lines, err := bootcfg.ReadLines(target)
	if err != nil {
		return "", false, err
	}
	idx, err := r.findBootLine(boot, lines, image, target)
	if err != nil {
		return "", false, err
	}
	spec, has := bootcfg.ParseCmdline(lines[idx]).Get(bootcfg.CrashKernelKey)
	return spec, has, nil
}

// findBootLine returns the index of the boot entry for image. Grub
// configurations carry one line per installed image, located by the
// image directory token; Aboot cmdline files hold a single entry.
func (r *Reconciler) findBootLine(boot platform.Bootloader, lines []string, image, target string) (int, error) {
	if boot == platform.BootloaderAboot {
		if len(lines) == 0 {
			return 0, kderrors.Newf(kderrors.ErrCodeNotFound, "%s is empty", target)
		}
		return 0, nil
	}
	needle := "loop=" + platform.ImageDir(r.cfg, image)
	idx, found := bootcfg.Locate(lines, needle)
	if !found {
		return 0, kderrors.Newf(kderrors.ErrCodeNotFound, "no boot entry for image %q in %s", image, target)
	}
	return idx, nil
}

// WarnIfOversized flags plain memory specs that leave little or no room
// for the running system. Tiered and range specs are opaque text and are
// never checked.
func WarnIfOversized(spec string) {
	if strings.ContainsAny(spec, ",:-") {
		return
	}
	requested, ok := parsePlainSize(spec)
	if !ok {
		return
	}
	vm, err := mem.VirtualMemory()
	if err != nil || vm.Total == 0 {
		return
	}
	switch {
	case requested >= vm.Total:
		slog.Warn("crash kernel reservation exceeds total system memory",
			slog.String("requested", spec),
			slog.Uint64("total_bytes", vm.Total))
	case requested*2 > vm.Total:
		slog.Warn("crash kernel reservation uses more than half of system memory",
			slog.String("requested", spec),
			slog.Uint64("total_bytes", vm.Total))
	}
}

func parsePlainSize(spec string) (uint64, bool) {
	if spec == "" {
		return 0, false
	}
	num := spec
	mult := uint64(1)
	switch spec[len(spec)-1] {
	case 'K', 'k':
		mult = 1 << 10
		num = spec[:len(spec)-1]
	case 'M', 'm':
		mult = 1 << 20
		num = spec[:len(spec)-1]
	case 'G', 'g':
		mult = 1 << 30
		num = spec[:len(spec)-1]
	}
	n, err := strconv.ParseUint(num, 10, 64)
	if err != nil {
		return 0, false
	}
	return n * mult, true
}
