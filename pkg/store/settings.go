/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package store reads the administratively requested kdump settings and
// persists the two that live in the kdump tool's config file.
//
// The settings deliberately arrive over two channels: the enabled flag
// comes from the running-configuration database, while the memory spec and
// dump count come from the platform's show-commands with hardcoded
// fallbacks. That asymmetry matches how the rest of the system reads the
// same values and is kept for compatibility.
package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
)

// Bounds accepted for the stored dump count.
const (
	MinNumDumps = 1
	MaxNumDumps = 10
)

// Source reads administrative settings. It never fails: every read has a
// defined fallback for missing or malformed data.
type Source struct {
	cfg    *config.Config
	runner *hostexec.Runner
}

// NewSource returns a Source over the given configuration and runner.
func NewSource(cfg *config.Config, runner *hostexec.Runner) *Source {
	return &Source{cfg: cfg, runner: runner}
}

// AdminEnabled reads the enabled flag from the KDUMP|config record of the
// running-configuration database. Anything but the string "true",
// including a failed query, means disabled.
func (s *Source) AdminEnabled(ctx context.Context) bool {
	res := s.runner.Run(ctx, s.cfg.DBCliCmd, "CONFIG_DB", "HGET", "KDUMP|config", "enabled")
	if res.Failed() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(res.FirstLine()), "true")
}

// Memory returns the configured crash-kernel memory spec.
func (s *Source) Memory(ctx context.Context) string {
	return s.showValue(ctx, "memory", s.cfg.DefaultMemory)
}

// NumDumps returns the configured maximum number of stored crash dumps.
func (s *Source) NumDumps(ctx context.Context) int {
	v := s.showValue(ctx, "num_dumps", "")
	n, err := strconv.Atoi(v)
	if err != nil || n < MinNumDumps {
		return s.cfg.DefaultNumDumps
	}
	return n
}

// showValue runs `show kdump <topic>` and parses the "<label>: <value>"
// output shape: everything after the first ": " is the value. Malformed or
// missing output yields fallback.
func (s *Source) showValue(ctx context.Context, topic, fallback string) string {
	res := s.runner.Run(ctx, s.cfg.ShowCmd, "kdump", topic)
	if res.Failed() {
		return fallback
	}

	_, value, found := strings.Cut(res.FirstLine(), ": ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return fallback
	}
	return value
}
