package convert

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/soundforge/flacpress/internal/model"
)

// Operation converts one input file to the target profile.
//
// Implementations must report progress through onProgress at least once
// before returning successfully, with values that never decrease, and must
// return either a complete output descriptor or an error, never both.
// Long-running work is expected to guard itself with an internal deadline
// and fail with a timeout-kind error when exceeded rather than hang.
// onProgress may be nil when the caller does not want updates.
type Operation interface {
	Convert(ctx context.Context, file model.InputFile, profile model.Profile, onProgress func(percent int)) (model.Output, error)
}

// DefaultShrinkFactor is the projected output/input size ratio for lossless
// compression of PCM audio.
const DefaultShrinkFactor = 0.55

// DefaultTimeout is the per-file deadline applied when an operation is
// configured without one.
const DefaultTimeout = 2 * time.Minute

// EstimateOutputSize projects the output size for an input of the given
// size as ceil(size * factor). The result is a planning estimate, not a
// measurement. Non-positive inputs yield zero.
func EstimateOutputSize(size int64, factor float64) int64 {
	if size <= 0 || factor <= 0 {
		return 0
	}
	return int64(math.Ceil(float64(size) * factor))
}

// OutputName maps an input file name to its converted name: the extension
// is replaced with the profile format.
func OutputName(name, format string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + format
}
