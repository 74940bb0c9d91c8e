package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// Binary describes an external program the trimmer shells out to.
type Binary struct {
	Name       string
	InstallURL string
	// Purpose is shown by the doctor command.
	Purpose string
}

// Required lists every external program, in the order doctor reports them.
var Required = []Binary{
	{Name: "mpv", InstallURL: MpvInstallURL, Purpose: "playback"},
	{Name: "ffmpeg", InstallURL: FfmpegInstallURL, Purpose: "trimming and thumbnails"},
	{Name: "ffprobe", InstallURL: FfmpegInstallURL, Purpose: "reading video metadata"},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check returns a *DependencyError if b is not on PATH.
func Check(b Binary) error {
	if _, err := lookPath(b.Name); err != nil {
		return &DependencyError{Name: b.Name, InstallURL: b.InstallURL}
	}
	return nil
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error { return Check(Required[0]) }

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error { return Check(Required[1]) }

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error { return Check(Required[2]) }

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errs []error
	for _, b := range Required {
		if err := Check(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
