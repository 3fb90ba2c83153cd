/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
	"github.com/bsun-sudo/sonic-utilities/pkg/metrics"
	"github.com/bsun-sudo/sonic-utilities/pkg/platform"
	"github.com/bsun-sudo/sonic-utilities/pkg/serializer"
	"github.com/bsun-sudo/sonic-utilities/pkg/status"
)

// cmdStatus collects a snapshot of the crash dump subsystem and renders
// it. Without --output or --format the plain key/value report is
// printed; otherwise the snapshot is serialized in the requested format.
func cmdStatus(ctx context.Context, cmd *cli.Command, cfg *config.Config, runner *hostexec.Runner) error {
	image, err := platform.ResolveImage(ctx, runner, cfg, platform.ImageCurrent)
	if err != nil {
		return err
	}

	snap, err := status.NewCollector(cfg, runner).Collect(ctx, image)
	if err != nil {
		return err
	}

	if err := metrics.NewExporter().Export(cfg.MetricsTextfile, snap); err != nil {
		slog.Warn("metrics textfile export failed", slog.String("error", err.Error()))
	}

	if cmd.String("output") == "" && cmd.String("format") == "" {
		snap.Render(os.Stdout)
		return nil
	}

	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser, err := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if err := closer.Close(); err != nil {
				slog.Warn("failed to close serializer", "error", err)
			}
		}
	}()

	return ser.Serialize(ctx, snap)
}
