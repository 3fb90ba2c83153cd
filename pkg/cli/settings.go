/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
	"github.com/bsun-sudo/sonic-utilities/pkg/platform"
	"github.com/bsun-sudo/sonic-utilities/pkg/reconcile"
	"github.com/bsun-sudo/sonic-utilities/pkg/store"
)

// cmdNumDumps validates and persists the retained core file count.
func cmdNumDumps(cfg *config.Config, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return kderrors.Newf(kderrors.ErrCodeInvalidInput, "invalid dump count %q", value)
	}
	if n < store.MinNumDumps || n > store.MaxNumDumps {
		return kderrors.Newf(kderrors.ErrCodeInvalidInput,
			"dump count %d out of range [%d, %d]", n, store.MinNumDumps, store.MaxNumDumps)
	}

	slog.Debug("updating retained dump count", slog.Int("num_dumps", n))

	return store.NewToolConfig(cfg.KdumpToolCfgFile).WriteNumDumps(n)
}

// cmdMemory records a new crash kernel memory spec. The boot entry is
// rewritten only while kdump is administratively enabled; otherwise the
// spec takes effect on the next enable.
func cmdMemory(ctx context.Context, cfg *config.Config, runner *hostexec.Runner, spec string) error {
	reconcile.WarnIfOversized(spec)

	if !store.NewSource(cfg, runner).AdminEnabled(ctx) {
		slog.Info("kdump is administratively disabled, the memory spec applies on the next enable",
			slog.String("memory", spec))
		return nil
	}

	image, err := platform.ResolveImage(ctx, runner, cfg, platform.ImageCurrent)
	if err != nil {
		return err
	}

	_, err = reconcile.New(cfg).Enable(ctx, image, spec)
	return err
}
