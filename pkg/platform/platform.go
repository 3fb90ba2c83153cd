/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package platform answers two questions for the rest of the tooling:
// which bootloader owns the kernel command lines on this switch, and which
// OS image an operation targets.
package platform

import (
	"fmt"
	"os"
	"strings"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
)

// Bootloader identifies the boot firmware family managing kernel command
// lines.
type Bootloader int

const (
	BootloaderUnsupported Bootloader = iota
	BootloaderGrub
	BootloaderAboot
)

func (b Bootloader) String() string {
	switch b {
	case BootloaderGrub:
		return "grub"
	case BootloaderAboot:
		return "aboot"
	}
	return "unsupported"
}

// abootMarker is the machine-descriptor key present on Aboot platforms.
const abootMarker = "aboot_platform="

// Detect probes the host for the bootloader in charge. A GRUB config file
// wins when it exists; otherwise the machine descriptor decides Aboot.
func Detect(cfg *config.Config) Bootloader {
	if _, err := os.Stat(cfg.GrubCfgFile); err == nil {
		return BootloaderGrub
	}

	data, err := os.ReadFile(cfg.MachineCfgFile)
	if err != nil {
		return BootloaderUnsupported
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), abootMarker) {
			return BootloaderAboot
		}
	}
	return BootloaderUnsupported
}

// ImageDir returns the on-disk directory token for an installer image
// name: the distribution prefix is dropped and "image-" prepended, so
// "SONiC-OS-20230531.22" becomes "image-20230531.22". Boot entries
// reference this token in their loop= parameter.
func ImageDir(cfg *config.Config, image string) string {
	return "image-" + strings.TrimPrefix(image, cfg.ImagePrefix)
}

// CmdlineFile returns the boot-config file holding image's kernel command
// line under bootloader b. GRUB keeps every image in one shared file;
// Aboot dedicates a per-image file.
func CmdlineFile(cfg *config.Config, b Bootloader, image string) string {
	if b == BootloaderAboot {
		return fmt.Sprintf(cfg.AbootCfgTemplate, strings.TrimPrefix(image, cfg.ImagePrefix))
	}
	return cfg.GrubCfgFile
}
