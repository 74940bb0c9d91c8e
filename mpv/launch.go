package mpv

import (
	"os"
	"os/exec"

	"github.com/user/video-trimmer-cli/deps"
)

// Launch starts an idle, paused mpv listening on socketPath. The file is
// loaded later through the Player so that load errors surface over IPC.
// The returned command can be used for cleanup.
func Launch(socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}

	// a stale socket from a crashed session would make Connect succeed against nothing
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--idle=yes",
		"--keep-open=yes",
		"--pause",
		"--force-window=yes",
		"--osd-level=0",
		"--really-quiet",
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}
