package platform

import (
	"context"
	"strings"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
)

// Which selects between the running image and the image staged for the
// next boot.
type Which int

const (
	ImageCurrent Which = iota
	ImageNext
)

func (w Which) String() string {
	if w == ImageNext {
		return "next"
	}
	return "current"
}

func (w Which) listingPrefix() string {
	if w == ImageNext {
		return "Next: "
	}
	return "Current: "
}

// ResolveImage asks the image installer for the current or next image
// name. The listing must contain exactly one matching line; zero or
// several is an AMBIGUOUS_RESULT and fatal to the operation.
func ResolveImage(ctx context.Context, runner *hostexec.Runner, cfg *config.Config, which Which) (string, error) {
	res := runner.Run(ctx, cfg.InstallerCmd, "list")
	if res.Failed() {
		return "", kderrors.Newf(kderrors.ErrCodeCommandFailed,
			"failed to list OS images (rc=%d)", res.ExitCode)
	}

	prefix := which.listingPrefix()
	var matches []string
	for _, line := range res.Stdout {
		if strings.HasPrefix(line, prefix) {
			matches = append(matches, strings.TrimSpace(strings.TrimPrefix(line, prefix)))
		}
	}
	if len(matches) != 1 {
		return "", kderrors.Newf(kderrors.ErrCodeAmbiguous,
			"found %d %s images in the installer listing instead of exactly one", len(matches), which)
	}
	return matches[0], nil
}
