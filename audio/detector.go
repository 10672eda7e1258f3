package audio

import (
	"os/exec"
	"strconv"
)

// lookPath is replaced in tests
var lookPath = exec.LookPath

// DetectBackend searches for available audio backends
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay
func DetectBackend() (*BackendConfig, error) {
	rate := strconv.Itoa(SampleRate)
	channels := strconv.Itoa(Channels)

	candidates := []BackendConfig{
		{Type: BackendPulse, Name: "pacat", Args: []string{
			"--raw", "--format=s16le", "--rate=" + rate, "--channels=" + channels, "--latency-msec=50", "--playback",
		}},
		{Type: BackendPipeWire, Name: "pw-cat", Args: []string{
			"--playback", "--format=s16", "--rate=" + rate, "--channels=" + channels, "--latency=50ms", "-",
		}},
		{Type: BackendALSA, Name: "aplay", Args: []string{
			"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", channels, "-q",
		}},
		{Type: BackendSoX, Name: "play", Args: []string{
			"-t", "raw", "-e", "signed", "-b", "16", "-c", channels, "-r", rate, "-", "-d", "-q",
		}},
		{Type: BackendFFplay, Name: "ffplay", Args: []string{
			"-nodisp", "-autoexit", "-f", "s16le", "-ac", channels, "-ar", rate,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
		}},
	}

	for _, c := range candidates {
		if path, err := lookPath(c.Name); err == nil {
			c.Path = path
			return &c, nil
		}
	}
	return nil, ErrNoAudioBackend
}
