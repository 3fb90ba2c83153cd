// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the command-line interface of sonic-kdump-config.
//
// # Overview
//
// sonic-kdump-config manages the kernel crash dump subsystem of a SONiC
// switch: it reserves crash kernel memory in the bootloader command line,
// tunes the kdump-tools runtime settings, and reports on stored crash
// records. Exactly one action flag is given per invocation; running the
// tool without one prints the help text and exits nonzero.
//
// # Actions
//
// --enable reserves crash kernel memory for the current image:
//
//	sonic-kdump-config --enable
//
// Reads the stored memory spec, injects or corrects the crashkernel
// parameter in the current image's boot entry, and persists the enable
// flag for kdump-tools. Prints a reboot notice when the boot entry
// changed.
//
// --config-next applies the same reconciliation to the image that will
// boot next, so an image upgrade carries the reservation over:
//
//	sonic-kdump-config --config-next
//
// --disable clears the enable flag and removes the reservation:
//
//	sonic-kdump-config --disable
//
// --num_dumps sets how many kernel core files are kept:
//
//	sonic-kdump-config --num_dumps 5
//
// --memory records a new crash kernel memory spec:
//
//	sonic-kdump-config --memory 0M-2G:256M,2G-4G:320M,4G-8G:384M,8G-:448M
//
// The boot entry is rewritten immediately only while kdump is enabled;
// otherwise the spec is stored and applied on the next --enable.
//
// --status reports the administrative, operational, and boot state:
//
//	sonic-kdump-config --status
//	sonic-kdump-config --status --format json
//	sonic-kdump-config --status --output /tmp/kdump.yaml
//
// --files lists the stored crash records, most recent first:
//
//	sonic-kdump-config --files
//
// --file displays the tail of one record's kernel log, selected by
// record number or key:
//
//	sonic-kdump-config --file 2
//	sonic-kdump-config --file 202306141559 --lines 200
//
// # Global Flags
//
//	--lines, -l    Number of log lines shown by --file (default: 75)
//	--output, -o   Output file path for --status (default: stdout)
//	--format, -t   Output format for --status: yaml, json, table
//	--config       YAML file overriding the default paths and commands
//	--verbose, -v  Enable debug logging
//	--log-json     Output logs in JSON format
//	--version      Show version information
//	--help, -h     Show command help
//
// # Output Formats
//
// The plain --status report is a fixed key/value listing suitable for
// operators. With --format or --output the snapshot is serialized
// instead:
//
// YAML:
//   - Human-readable, preserves structure
//   - Suitable for version control
//
// JSON:
//   - Machine-parseable, compact
//   - Suitable for programmatic consumption
//
// Table:
//   - Flattened field/value representation
//   - Suitable for terminal viewing
//
// # Environment Variables
//
//	LOG_LEVEL  Set logging verbosity (debug, info, warn, error)
//
// # Exit Codes
//
//	0  Success, including benign no-ops such as enabling twice
//	1  Any failure (invalid arguments, unreadable boot config, exec errors)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/platform - Bootloader detection and image resolution
//   - pkg/store - CONFIG_DB reads and kdump-tools settings
//   - pkg/reconcile - Crash kernel reservation in the boot entry
//   - pkg/coredump - Crash record listing and display
//   - pkg/status - Subsystem snapshot collection
//   - pkg/metrics - Prometheus textfile export
//   - pkg/serializer - Output formatting
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/bsun-sudo/sonic-utilities/pkg/cli.version=1.0.0'"
package cli
