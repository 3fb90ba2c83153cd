/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package coredump lists and displays the crash artifacts captured in the
// crash storage directory. Each record is a kernel-log file and a memory
// dump sharing a timestamp-like key; the two are joined by that key, and
// files with no counterpart are reported instead of being paired by
// position.
package coredump

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
)

const (
	logFilePrefix  = "dmesg."
	dumpFilePrefix = "kdump."

	msgNoCoreFiles = "No kernel core dump files"
)

// recordIndexRE matches selectors treated as 1-based record numbers.
var recordIndexRE = regexp.MustCompile(`^\d{1,2}$`)

// Record is one captured crash: the kernel log and, when present, the
// matching memory dump.
type Record struct {
	Key      string
	LogFile  string
	DumpFile string
}

// Lister scans the crash storage directory and renders records for the
// operator.
type Lister struct {
	cfg    *config.Config
	runner *hostexec.Runner
	out    io.Writer
}

// Option adjusts a Lister.
type Option func(*Lister)

// WithOutput redirects operator-facing output.
func WithOutput(w io.Writer) Option {
	return func(l *Lister) { l.out = w }
}

func NewLister(cfg *config.Config, runner *hostexec.Runner, opts ...Option) *Lister {
	l := &Lister{cfg: cfg, runner: runner, out: os.Stdout}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns the stored crash records, most recent first. Kernel logs
// with no matching dump are kept with an empty DumpFile; dumps with no
// matching log are dropped. Both cases log a warning.
func (l *Lister) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logs, err := l.glob(logFilePrefix)
	if err != nil {
		return nil, err
	}
	dumps, err := l.glob(dumpFilePrefix)
	if err != nil {
		return nil, err
	}

	dumpByKey := make(map[string]string, len(dumps))
	for _, path := range dumps {
		dumpByKey[strings.TrimPrefix(filepath.Base(path), dumpFilePrefix)] = path
	}

	records := make([]Record, 0, len(logs))
	for _, path := range logs {
		key := strings.TrimPrefix(filepath.Base(path), logFilePrefix)
		dump, ok := dumpByKey[key]
		if !ok {
			slog.Warn("kernel log has no matching memory dump", slog.String("file", path))
		}
		delete(dumpByKey, key)
		records = append(records, Record{Key: key, LogFile: path, DumpFile: dump})
	}
	for _, path := range dumpByKey {
		slog.Warn("memory dump has no matching kernel log", slog.String("file", path))
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Key > records[j].Key })
	return records, nil
}

func (l *Lister) glob(prefix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.cfg.CrashDumpDir, prefix+"*"))
	if err != nil {
		return nil, kderrors.Wrap(kderrors.ErrCodeIO, err, "failed to scan "+l.cfg.CrashDumpDir)
	}
	return matches, nil
}

// PrintTable writes the record listing as a fixed-width table with a
// 1-based record number. An empty set prints the canned no-files message
// and nothing else.
func (l *Lister) PrintTable(records []Record) {
	if len(records) == 0 {
		fmt.Fprintln(l.out, msgNoCoreFiles)
		return
	}
	fmt.Fprintf(l.out, "%6s  %-20s  %-44s  %s\n", "Record", "Key", "Kernel log", "Memory dump")
	for i, r := range records {
		dump := r.DumpFile
		if dump == "" {
			dump = "-"
		}
		fmt.Fprintf(l.out, "%6d  %-20s  %-44s  %s\n", i+1, r.Key, r.LogFile, dump)
	}
}

// Show prints the last tailLines lines of one record's kernel log under a
// file-path header. A 1-2 digit selector is a 1-based index into the
// listing; anything else matches record keys and filenames by substring,
// first hit after the reverse sort winning.
func (l *Lister) Show(ctx context.Context, selector string, tailLines int) error {
	records, err := l.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(l.out, msgNoCoreFiles)
		return nil
	}

	rec, err := l.selectRecord(records, selector)
	if err != nil {
		return err
	}

	res := l.runner.Run(ctx, l.cfg.TailCmd, "-n", strconv.Itoa(tailLines), rec.LogFile)
	if res.Failed() {
		return kderrors.Newf(kderrors.ErrCodeCommandFailed,
			"failed to read the last %d lines of %s", tailLines, rec.LogFile)
	}
	fmt.Fprintf(l.out, "File: %s\n\n", rec.LogFile)
	for _, line := range res.Stdout {
		fmt.Fprintln(l.out, line)
	}
	return nil
}

func (l *Lister) selectRecord(records []Record, selector string) (Record, error) {
	if recordIndexRE.MatchString(selector) {
		n, _ := strconv.Atoi(selector)
		if n < 1 || n > len(records) {
			fmt.Fprintf(l.out, "Invalid record number - Should be between 1 and %d\n", len(records))
			return Record{}, kderrors.Reported(kderrors.Newf(kderrors.ErrCodeInvalidInput,
				"record number %d out of range", n))
		}
		return records[n-1], nil
	}

	for _, r := range records {
		if strings.Contains(r.Key, selector) || strings.Contains(filepath.Base(r.LogFile), selector) {
			return r, nil
		}
	}
	fmt.Fprintln(l.out, "Invalid key")
	if hint, ok := closestKey(records, selector); ok {
		fmt.Fprintf(l.out, "Did you mean %q?\n", hint)
	}
	return Record{}, kderrors.Reported(kderrors.Newf(kderrors.ErrCodeNotFound,
		"no crash record matches %q", selector))
}

// closestKey suggests the record key nearest to the selector, but only
// when the distance is small enough for the suggestion to be plausible.
func closestKey(records []Record, selector string) (string, bool) {
	best := ""
	bestDist := -1
	for _, r := range records {
		d := levenshtein.ComputeDistance(selector, r.Key)
		if bestDist < 0 || d < bestDist {
			best, bestDist = r.Key, d
		}
	}
	limit := len(best)
	if len(selector) > limit {
		limit = len(selector)
	}
	if bestDist < 0 || bestDist*2 > limit {
		return "", false
	}
	return best, true
}
