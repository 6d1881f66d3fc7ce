package model

import "time"

// InputFile describes a candidate audio file as submitted by the caller.
// It is caller-provided metadata only; the engine never opens Name or Path
// on its own.
type InputFile struct {
	Name string // base file name, e.g. "take-07.wav"
	Size int64  // size in bytes
	Type string // MIME-like type tag, e.g. "audio/wav"
	Path string // optional filesystem path for disk-backed operations
}

// Profile describes the target audio parameters every task in a batch is
// converted to. It is shared read-only across the batch.
type Profile struct {
	Format     string // container/extension tag, e.g. "flac"
	SampleRate int    // samples per second, e.g. 192000
	Channels   int    // channel count, e.g. 2
	BitDepth   int    // bits per sample, e.g. 24
	Codec      string // encoder identifier, e.g. "flac"
}

// DefaultProfile returns the high-resolution FLAC profile used when the
// caller does not configure one.
func DefaultProfile() Profile {
	return Profile{
		Format:     "flac",
		SampleRate: 192000,
		Channels:   2,
		BitDepth:   24,
		Codec:      "flac",
	}
}

// Output describes the artifact of a finished conversion.
type Output struct {
	Name          string    // output file name, input base renamed to the profile format
	EstimatedSize int64     // projected size in bytes, an estimate rather than a measurement
	Profile       Profile   // profile the file was converted with
	CompletedAt   time.Time // when the conversion finished
}
