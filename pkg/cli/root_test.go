/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/bsun-sudo/sonic-utilities/pkg/serializer"
)

func TestRootCmd(t *testing.T) {
	cmd := New()

	if cmd.Name != "sonic-kdump-config" {
		t.Errorf("expected command name 'sonic-kdump-config', got %q", cmd.Name)
	}

	if cmd.Action == nil {
		t.Error("root command has no action")
	}

	if len(cmd.Commands) != 0 {
		t.Errorf("expected a flag-driven command without subcommands, got %d", len(cmd.Commands))
	}

	flagNames := make(map[string]bool)
	for _, flag := range cmd.Flags {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}

	required := []string{
		"enable", "config-next", "disable", "status", "files",
		"num_dumps", "memory", "file",
		"lines", "l", "output", "o", "format", "t",
		"verbose", "v", "log-json", "config", "version",
	}
	for _, name := range required {
		if !flagNames[name] {
			t.Errorf("required flag %q not found", name)
		}
	}
}

// parseFlags runs the urfave parser over args and hands the populated
// command to fn instead of the real action.
func parseFlags(t *testing.T, args []string, fn func(cmd *cli.Command)) {
	t.Helper()

	cmd := New()
	cmd.Action = func(ctx context.Context, cmd *cli.Command) error {
		fn(cmd)
		return nil
	}
	if err := cmd.Run(context.Background(), append([]string{"sonic-kdump-config"}, args...)); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
}

func TestSelectAction(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"enable", []string{"--enable"}, actionEnable, false},
		{"config next", []string{"--config-next"}, actionConfigNext, false},
		{"disable", []string{"--disable"}, actionDisable, false},
		{"status", []string{"--status"}, actionStatus, false},
		{"files", []string{"--files"}, actionFiles, false},
		{"num dumps", []string{"--num_dumps", "5"}, actionNumDumps, false},
		{"memory", []string{"--memory", "0M-2G:256M"}, actionMemory, false},
		{"file", []string{"--file", "2"}, actionFile, false},
		{"file with lines", []string{"--file", "2", "--lines", "100"}, actionFile, false},
		{"modifiers do not count", []string{"--status", "--verbose", "--log-json"}, actionStatus, false},
		{"no action", nil, "", true},
		{"two bool actions", []string{"--enable", "--disable"}, "", true},
		{"bool and value action", []string{"--disable", "--memory", "512M"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseFlags(t, tt.args, func(cmd *cli.Command) {
				got, err := selectAction(cmd)
				if tt.wantErr {
					if err == nil {
						t.Fatalf("expected an error, got action %q", got)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected action %q, got %q", tt.want, got)
				}
			})
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    serializer.Format
		wantErr bool
	}{
		{"explicit json", []string{"--status", "--format", "json"}, serializer.FormatJSON, false},
		{"explicit yaml", []string{"--status", "--format", "yaml"}, serializer.FormatYAML, false},
		{"explicit table", []string{"--status", "--format", "table"}, serializer.FormatTable, false},
		{"unknown format", []string{"--status", "--format", "xml"}, "", true},
		{"inferred from output path", []string{"--status", "--output", "snap.json"}, serializer.FormatJSON, false},
		{"defaults to yaml", []string{"--status"}, serializer.FormatYAML, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseFlags(t, tt.args, func(cmd *cli.Command) {
				got, err := parseOutputFormat(cmd)
				if tt.wantErr {
					if err == nil {
						t.Fatalf("expected an error, got format %q", got)
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("expected format %q, got %q", tt.want, got)
				}
			})
		})
	}
}
