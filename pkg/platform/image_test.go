package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kexec "k8s.io/utils/exec"
	fakeexec "k8s.io/utils/exec/testing"

	"github.com/bsun-sudo/sonic-utilities/pkg/config"
	kderrors "github.com/bsun-sudo/sonic-utilities/pkg/errors"
	"github.com/bsun-sudo/sonic-utilities/pkg/hostexec"
)

func installerRunner(stdout string, err error) *hostexec.Runner {
	fcmd := &fakeexec.FakeCmd{RunScript: []fakeexec.FakeAction{
		func() ([]byte, []byte, error) { return []byte(stdout), nil, err },
	}}
	fe := &fakeexec.FakeExec{CommandScript: []fakeexec.FakeCommandAction{
		func(cmd string, args ...string) kexec.Cmd { return fakeexec.InitFakeCmd(fcmd, cmd, args...) },
	}}
	return hostexec.NewWithExec(fe)
}

const installerListing = `Current: SONiC-OS-20230531.22
Next: SONiC-OS-20231121.04
Available:
SONiC-OS-20230531.22
SONiC-OS-20231121.04
`

func TestResolveImage_Current(t *testing.T) {
	runner := installerRunner(installerListing, nil)

	image, err := ResolveImage(context.Background(), runner, config.Default(), ImageCurrent)

	require.NoError(t, err)
	assert.Equal(t, "SONiC-OS-20230531.22", image)
}

func TestResolveImage_Next(t *testing.T) {
	runner := installerRunner(installerListing, nil)

	image, err := ResolveImage(context.Background(), runner, config.Default(), ImageNext)

	require.NoError(t, err)
	assert.Equal(t, "SONiC-OS-20231121.04", image)
}

func TestResolveImage_ZeroMatchesIsFatal(t *testing.T) {
	runner := installerRunner("Available:\nSONiC-OS-20230531.22\n", nil)

	_, err := ResolveImage(context.Background(), runner, config.Default(), ImageCurrent)

	require.Error(t, err)
	assert.True(t, kderrors.IsCode(err, kderrors.ErrCodeAmbiguous))
}

func TestResolveImage_MultipleMatchesIsFatal(t *testing.T) {
	runner := installerRunner("Current: SONiC-OS-A\nCurrent: SONiC-OS-B\n", nil)

	_, err := ResolveImage(context.Background(), runner, config.Default(), ImageCurrent)

	require.Error(t, err)
	assert.True(t, kderrors.IsCode(err, kderrors.ErrCodeAmbiguous))
}

func TestResolveImage_InstallerFailure(t *testing.T) {
	runner := installerRunner("", &fakeexec.FakeExitError{Status: 3})

	_, err := ResolveImage(context.Background(), runner, config.Default(), ImageCurrent)

	require.Error(t, err)
	assert.True(t, kderrors.IsCode(err, kderrors.ErrCodeCommandFailed))
}
