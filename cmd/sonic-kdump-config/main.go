/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Command sonic-kdump-config configures and reports on the kernel crash
// dump subsystem of a SONiC switch. See pkg/cli for the action flags.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bsun-sudo/sonic-utilities/pkg/cli"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
)

func main() {
	if err := cli.New().Run(context.Background(), os.Args); err != nil {
		// Errors already printed for the operator carry the reported
		// marker and only set the exit code here.
		if !kderrors.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
