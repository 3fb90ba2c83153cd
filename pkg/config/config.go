/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package config carries every host path and external command the kdump
// tooling touches. Components receive a Config explicitly instead of
// reading package-level constants, so tests can point everything at a
// temporary tree.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables for one invocation.
type Config struct {
	// Boot configuration.
	GrubCfgFile      string `yaml:"grubCfgFile"`
	AbootCfgTemplate string `yaml:"abootCfgTemplate"`
	MachineCfgFile   string `yaml:"machineCfgFile"`
	ImagePrefix      string `yaml:"imagePrefix"`

	// Kdump tool state.
	KdumpToolCfgFile string `yaml:"kdumpToolCfgFile"`
	ProcCmdlineFile  string `yaml:"procCmdlineFile"`
	CrashSizeFile    string `yaml:"crashSizeFile"`
	CrashDumpDir     string `yaml:"crashDumpDir"`

	// External commands.
	InstallerCmd   string `yaml:"installerCmd"`
	DBCliCmd       string `yaml:"dbCliCmd"`
	ShowCmd        string `yaml:"showCmd"`
	KdumpConfigCmd string `yaml:"kdumpConfigCmd"`
	TailCmd        string `yaml:"tailCmd"`

	// Reporting.
	ServiceUnit     string `yaml:"serviceUnit"`
	MetricsTextfile string `yaml:"metricsTextfile"`

	// Operational fallbacks used when the show-commands yield nothing.
	DefaultMemory   string `yaml:"defaultMemory"`
	DefaultNumDumps int    `yaml:"defaultNumDumps"`
}

// Default returns the production configuration.
func Default() *Config {
	return &Config{
		GrubCfgFile:      "/host/grub/grub.cfg",
		AbootCfgTemplate: "/host/image-%s/kernel-cmdline",
		MachineCfgFile:   "/host/machine.conf",
		ImagePrefix:      "SONiC-OS-",

		KdumpToolCfgFile: "/etc/default/kdump-tools",
		ProcCmdlineFile:  "/proc/cmdline",
		CrashSizeFile:    "/sys/kernel/kexec_crash_size",
		CrashDumpDir:     "/var/crash",

		InstallerCmd:   "/usr/local/bin/sonic-installer",
		DBCliCmd:       "/usr/local/bin/sonic-db-cli",
		ShowCmd:        "/usr/local/bin/show",
		KdumpConfigCmd: "/usr/sbin/kdump-config",
		TailCmd:        "tail",

		ServiceUnit:     "kdump-tools.service",
		MetricsTextfile: "",

		DefaultMemory:   "0M-2G:256M,2G-4G:320M,4G-8G:384M,8G-:448M",
		DefaultNumDumps: 3,
	}
}

// Load returns the default configuration overlaid with the YAML file at
// path. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return cfg, nil
}
