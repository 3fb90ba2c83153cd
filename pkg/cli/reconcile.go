/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
	"github.com/bsun-sudo/sonic-utilities/pkg/platform"
	"github.com/bsun-sudo/sonic-utilities/pkg/reconcile"
	"github.com/bsun-sudo/sonic-utilities/pkg/store"
)

// cmdEnable reconciles the boot entry of the chosen image toward the
// stored memory spec and persists the kdump enable flag.
func cmdEnable(ctx context.Context, cfg *config.Config, runner *hostexec.Runner, which platform.Which) error {
	image, err := platform.ResolveImage(ctx, runner, cfg, which)
	if err != nil {
		return err
	}

	memory := store.NewSource(cfg, runner).Memory(ctx)
	reconcile.WarnIfOversized(memory)
	slog.Debug("enabling kdump",
		slog.String("image", image),
		slog.String("memory", memory))

	_, err = reconcile.New(cfg).Enable(ctx, image, memory)
	return err
}

// cmdDisable clears the kdump enable flag and removes the crash kernel
// reservation from the current image's boot entry.
func cmdDisable(ctx context.Context, cfg *config.Config, runner *hostexec.Runner) error {
	image, err := platform.ResolveImage(ctx, runner, cfg, platform.ImageCurrent)
	if err != nil {
		return err
	}

	slog.Debug("disabling kdump", slog.String("image", image))

	_, err = reconcile.New(cfg).Disable(ctx, image)
	return err
}
