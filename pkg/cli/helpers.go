/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/bsun-sudo/sonic-utilities/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
// When no format is given it is inferred from the output path's extension.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	format := cmd.String("format")
	if format == "" {
		return serializer.FormatFromPath(cmd.String("output")), nil
	}
	outFormat := serializer.Format(format)
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, valid formats are: yaml, json, table", outFormat)
	}
	return outFormat, nil
}
