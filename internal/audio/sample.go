package audio

import (
	"math/rand/v2"
	"os"
	"path/filepath"
)

const (
	samplePrefix    = "whisper_connector_audio_sample_"
	sampleExt       = ".mp3"
	sampleSuffixLen = 8
	alphanumeric    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// SamplePath returns a fresh file name for one recording and its absolute
// location in the system temp directory. The file itself is not created.
func SamplePath() (name, path string) {
	suffix := make([]byte, sampleSuffixLen)
	for i := range suffix {
		suffix[i] = alphanumeric[rand.IntN(len(alphanumeric))]
	}

	name = samplePrefix + string(suffix) + sampleExt
	return name, filepath.Join(os.TempDir(), name)
}
