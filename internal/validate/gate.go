package validate

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/soundforge/flacpress/internal/model"
)

// Reason classifies why the gate turned a candidate away
type Reason string

const (
	// ReasonUnsupportedFormat means the file's type tag is not a known audio format
	ReasonUnsupportedFormat Reason = "unsupported-format"

	// ReasonTooLarge means the file exceeds the admission size ceiling
	ReasonTooLarge Reason = "too-large"

	// ReasonDuplicate means a file with the same name and size is already admitted
	ReasonDuplicate Reason = "duplicate"
)

// DefaultMaxFileSize is the admission ceiling used when no explicit limit is
// configured. Files exactly at the ceiling are admitted.
const DefaultMaxFileSize int64 = 1 << 30 // 1 GiB

// DefaultTypes returns the audio type tags the gate accepts exactly. Tags
// outside this list still pass when they carry the generic "audio/" prefix.
func DefaultTypes() []string {
	return []string{
		"audio/wav",
		"audio/x-wav",
		"audio/wave",
		"audio/mpeg",
		"audio/mp4",
		"audio/aac",
		"audio/ogg",
		"audio/flac",
		"audio/x-flac",
		"audio/aiff",
		"audio/x-aiff",
	}
}

// Rejection pairs a turned-away candidate with the first rule it violated
// and a human-readable message suitable for display.
type Rejection struct {
	File    model.InputFile
	Reason  Reason
	Message string
}

// fileKey identifies a file for duplicate detection.
type fileKey struct {
	name string
	size int64
}

// Gate decides which candidate files may enter a batch. Rules are applied to
// each candidate independently and in a fixed order, so the first violated
// rule is the one reported. The zero value is not usable; construct with
// NewGate.
type Gate struct {
	maxFileSize int64
	types       map[string]struct{}
}

// NewGate creates a gate with the given size ceiling and accepted type tags.
// Non-positive maxFileSize falls back to DefaultMaxFileSize and an empty
// types list falls back to DefaultTypes.
func NewGate(maxFileSize int64, types []string) *Gate {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if len(types) == 0 {
		types = DefaultTypes()
	}
	set := make(map[string]struct{}, len(types))
	for _, tag := range types {
		set[normalizeType(tag)] = struct{}{}
	}
	return &Gate{maxFileSize: maxFileSize, types: set}
}

// MaxFileSize returns the admission ceiling in bytes.
func (g *Gate) MaxFileSize() int64 {
	return g.maxFileSize
}

// Admit splits candidates into admitted files and rejections. Rules are
// checked in order: unsupported format, too large, duplicate. The duplicate
// check runs against accepted plus every candidate admitted earlier in the
// same call, so resubmitting a file inside one call is rejected the same way
// as resubmitting it across calls. Rejected candidates never join the
// duplicate set. Inputs are not mutated and every outcome is expressed in
// the return values; Admit never panics on odd metadata.
func (g *Gate) Admit(candidates, accepted []model.InputFile) ([]model.InputFile, []Rejection) {
	admitted := make([]model.InputFile, 0, len(candidates))
	var rejected []Rejection

	known := make(map[fileKey]struct{}, len(accepted)+len(candidates))
	for _, f := range accepted {
		known[fileKey{f.Name, f.Size}] = struct{}{}
	}

	for _, f := range candidates {
		if !g.supportedType(f.Type) {
			rejected = append(rejected, Rejection{
				File:    f,
				Reason:  ReasonUnsupportedFormat,
				Message: fmt.Sprintf("%s: type %q is not a supported audio format", f.Name, f.Type),
			})
			continue
		}

		if f.Size > g.maxFileSize {
			rejected = append(rejected, Rejection{
				File:   f,
				Reason: ReasonTooLarge,
				Message: fmt.Sprintf("%s: %s exceeds the %s limit", f.Name,
					humanize.IBytes(uint64(f.Size)), humanize.IBytes(uint64(g.maxFileSize))),
			})
			continue
		}

		key := fileKey{f.Name, f.Size}
		if _, dup := known[key]; dup {
			rejected = append(rejected, Rejection{
				File:    f,
				Reason:  ReasonDuplicate,
				Message: fmt.Sprintf("%s: a file with the same name and size is already queued", f.Name),
			})
			continue
		}

		known[key] = struct{}{}
		admitted = append(admitted, f)
	}

	return admitted, rejected
}

// supportedType reports whether the type tag passes the format rule: either
// an exact member of the accepted set or any tag under the audio/ prefix.
func (g *Gate) supportedType(tag string) bool {
	tag = normalizeType(tag)
	if tag == "" {
		return false
	}
	if _, ok := g.types[tag]; ok {
		return true
	}
	return strings.HasPrefix(tag, "audio/")
}

func normalizeType(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
