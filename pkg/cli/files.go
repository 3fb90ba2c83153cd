/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	"github.com/bsun-sudo/sonic-utilities/pkg/coredump"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
)

// cmdFiles prints the table of stored crash records, most recent first.
func cmdFiles(ctx context.Context, cfg *config.Config, runner *hostexec.Runner) error {
	lister := coredump.NewLister(cfg, runner)
	records, err := lister.List(ctx)
	if err != nil {
		return err
	}
	lister.PrintTable(records)
	return nil
}

// cmdFile displays the tail of one crash record's kernel log.
func cmdFile(ctx context.Context, cmd *cli.Command, cfg *config.Config, runner *hostexec.Runner) error {
	lines, err := strconv.Atoi(cmd.String("lines"))
	if err != nil || lines < 1 {
		return kderrors.Newf(kderrors.ErrCodeInvalidInput, "invalid line count %q", cmd.String("lines"))
	}
	return coredump.NewLister(cfg, runner).Show(ctx, cmd.String(actionFile), lines)
}
