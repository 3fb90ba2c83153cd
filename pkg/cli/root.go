/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
	"github.com/bsun-sudo/sonic-utilities/pkg/logging"
	"github.com/bsun-sudo/sonic-utilities/pkg/platform"
)

// version is set at build time via ldflags.
var version = "dev"

// Action names, as reported in fatal diagnostics.
const (
	actionEnable     = "enable"
	actionConfigNext = "config-next"
	actionDisable    = "disable"
	actionStatus     = "status"
	actionNumDumps   = "num_dumps"
	actionMemory     = "memory"
	actionFiles      = "files"
	actionFile       = "file"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path for --status (default: stdout)",
	}
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   "output format for --status (json, yaml, table)",
	}
)

// New assembles the root command. Exactly one action flag must be given
// per invocation; the modifier and ambient flags adjust how it runs.
func New() *cli.Command {
	return &cli.Command{
		Name:                  "sonic-kdump-config",
		EnableShellCompletion: true,
		Usage:                 "Configure and report on the kernel crash dump subsystem",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  actionEnable,
				Usage: "reserve crash kernel memory for the current image and enable kdump",
			},
			&cli.BoolFlag{
				Name:  actionConfigNext,
				Usage: "apply the kdump configuration to the next boot image",
			},
			&cli.BoolFlag{
				Name:  actionDisable,
				Usage: "disable kdump and release the crash kernel reservation",
			},
			&cli.BoolFlag{
				Name:  actionStatus,
				Usage: "report the state of the crash dump subsystem",
			},
			&cli.BoolFlag{
				Name:  actionFiles,
				Usage: "list stored kernel core dump records",
			},
			&cli.StringFlag{
				Name:  actionNumDumps,
				Usage: "set the maximum number of kernel core files kept",
			},
			&cli.StringFlag{
				Name:  actionMemory,
				Usage: "set the crash kernel memory spec (e.g. 0M-2G:256M,2G-4G:320M)",
			},
			&cli.StringFlag{
				Name:  actionFile,
				Usage: "display one crash record, selected by record number or key",
			},
			&cli.StringFlag{
				Name:    "lines",
				Aliases: []string{"l"},
				Value:   "75",
				Usage:   "number of log lines to display with --file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "write logs as JSON",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML file overriding the default paths and commands",
			},
			&cli.BoolFlag{
				Name:  "version",
				Usage: "print the version and exit",
			},
			outputFlag,
			formatFlag,
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logging.Setup(cmd.Bool("verbose"), cmd.Bool("log-json"))

	if cmd.Bool("version") {
		fmt.Printf("sonic-kdump-config version %s\n", version)
		return nil
	}

	action, err := selectAction(cmd)
	if err != nil {
		_ = cli.ShowAppHelp(cmd)
		return err
	}

	if err := requireRoot(); err != nil {
		return err
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}

	if err := dispatch(ctx, cmd, cfg, hostexec.New(), action); err != nil {
		return fmt.Errorf("%s failed: %w", action, err)
	}
	return nil
}

// selectAction returns the one action the invocation requests. Zero or
// multiple selections are rejected.
func selectAction(cmd *cli.Command) (string, error) {
	var selected []string
	for _, name := range []string{actionEnable, actionConfigNext, actionDisable, actionStatus, actionFiles} {
		if cmd.Bool(name) {
			selected = append(selected, name)
		}
	}
	for _, name := range []string{actionNumDumps, actionMemory, actionFile} {
		if cmd.String(name) != "" {
			selected = append(selected, name)
		}
	}

	switch len(selected) {
	case 1:
		return selected[0], nil
	case 0:
		return "", fmt.Errorf("one action flag is required")
	default:
		return "", fmt.Errorf("conflicting action flags: %v", selected)
	}
}

func requireRoot() error {
	if os.Geteuid() != 0 {
		return kderrors.New(kderrors.ErrCodePrivilege, "root privileges are required for this operation")
	}
	return nil
}

func dispatch(ctx context.Context, cmd *cli.Command, cfg *config.Config, runner *hostexec.Runner, action string) error {
	switch action {
	case actionEnable:
		return cmdEnable(ctx, cfg, runner, platform.ImageCurrent)
	case actionConfigNext:
		return cmdEnable(ctx, cfg, runner, platform.ImageNext)
	case actionDisable:
		return cmdDisable(ctx, cfg, runner)
	case actionStatus:
		return cmdStatus(ctx, cmd, cfg, runner)
	case actionNumDumps:
		return cmdNumDumps(cfg, cmd.String(actionNumDumps))
	case actionMemory:
		return cmdMemory(ctx, cfg, runner, cmd.String(actionMemory))
	case actionFiles:
		return cmdFiles(ctx, cfg, runner)
	case actionFile:
		return cmdFile(ctx, cmd, cfg, runner)
	}
	return kderrors.Newf(kderrors.ErrCodeInternal, "unhandled action %q", action)
}
