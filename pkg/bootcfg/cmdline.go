/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package bootcfg reads, edits and rewrites bootloader configuration:
// whole files as ordered line sequences, and single kernel command lines
// as ordered parameter lists.
package bootcfg

import (
	"os"
	"strings"
)

// CrashKernelKey is the boot parameter controlling crash-kernel memory
// reservation.
const CrashKernelKey = "crashkernel"

// Param is one boot parameter: a bare flag, or key=value.
type Param struct {
	Key      string
	Value    string
	HasValue bool
}

// Cmdline is an ordered boot parameter list parsed from one command line.
// The leading whitespace of the source line survives a round-trip; the
// separation between parameters is normalized to single spaces when the
// line is serialized again.
type Cmdline struct {
	indent string
	params []Param
}

// ParseCmdline splits a boot command line into parameters. A value keeps
// embedded '=' characters, so root=PARTUUID=xyz splits on the first '='
// only.
func ParseCmdline(line string) *Cmdline {
	trimmed := strings.TrimLeft(line, " \t")
	c := &Cmdline{indent: line[:len(line)-len(trimmed)]}

	for _, field := range strings.Fields(trimmed) {
		s := strings.SplitN(field, "=", 2)
		p := Param{Key: s[0]}
		if len(s) == 2 {
			p.Value = s[1]
			p.HasValue = true
		}
		c.params = append(c.params, p)
	}
	return c
}

// String serializes the parameters back into a single line.
func (c *Cmdline) String() string {
	fields := make([]string, 0, len(c.params))
	for _, p := range c.params {
		if p.HasValue {
			fields = append(fields, p.Key+"="+p.Value)
		} else {
			fields = append(fields, p.Key)
		}
	}
	return c.indent + strings.Join(fields, " ")
}

// Get returns the value of the first parameter named key.
func (c *Cmdline) Get(key string) (string, bool) {
	for _, p := range c.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether a parameter named key is present.
func (c *Cmdline) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set updates the first parameter named key, or appends a new one at the
// end of the line.
func (c *Cmdline) Set(key, value string) {
	for i := range c.params {
		if c.params[i].Key == key {
			c.params[i].Value = value
			c.params[i].HasValue = true
			return
		}
	}
	c.params = append(c.params, Param{Key: key, Value: value, HasValue: true})
}

// Delete removes every parameter named key and reports whether any was
// present.
func (c *Cmdline) Delete(key string) bool {
	kept := c.params[:0]
	removed := false
	for _, p := range c.params {
		if p.Key == key {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	c.params = kept
	return removed
}

// CrashKernelFromLine extracts the crashkernel spec from a raw command
// line.
func CrashKernelFromLine(line string) (string, bool) {
	return ParseCmdline(line).Get(CrashKernelKey)
}

// CrashKernelFromFile reads a one-line cmdline file, such as
// /proc/cmdline, and extracts its crashkernel spec. Unreadable files
// report an absent parameter.
func CrashKernelFromFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return CrashKernelFromLine(strings.TrimSpace(string(data)))
}
