package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soundforge/flacpress/internal/model"
)

// FFmpeg constants for conversion settings
const (
	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="

	// Encoder settings
	CompressionLevel = "8"
)

// FFmpegConfig configures the encoder-backed operation.
type FFmpegConfig struct {
	// OutputDir is the directory converted files are written to.
	OutputDir string

	// BinPath is the ffmpeg executable. Defaults to FFmpegCommand.
	BinPath string

	// ProbePath is the ffprobe executable. Defaults to FFprobeCommand.
	ProbePath string

	// Timeout is the per-file deadline. Defaults to DefaultTimeout.
	Timeout time.Duration

	// ShrinkFactor is the projected output/input size ratio used for the
	// estimate reported alongside the real file.
	// Defaults to DefaultShrinkFactor.
	ShrinkFactor float64
}

// FFmpeg is an Operation that converts audio through the system ffmpeg
// binary. Percent progress is derived from ffmpeg's -progress output
// measured against the input duration reported by ffprobe. Partial output
// files are removed on failure, timeout, and cancellation.
type FFmpeg struct {
	cfg   FFmpegConfig
	names *collisionResolver
}

// NewFFmpeg creates an ffmpeg-backed operation, filling unset config fields
// with defaults.
func NewFFmpeg(cfg FFmpegConfig) *FFmpeg {
	if cfg.BinPath == "" {
		cfg.BinPath = FFmpegCommand
	}
	if cfg.ProbePath == "" {
		cfg.ProbePath = FFprobeCommand
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ShrinkFactor <= 0 {
		cfg.ShrinkFactor = DefaultShrinkFactor
	}
	return &FFmpeg{cfg: cfg, names: newCollisionResolver()}
}

// Convert runs ffmpeg on file.Path and writes the result under the
// configured output directory.
func (f *FFmpeg) Convert(ctx context.Context, file model.InputFile, profile model.Profile, onProgress func(percent int)) (model.Output, error) {
	if file.Path == "" {
		return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: errors.New("input path not set")}
	}

	duration, err := f.probeDuration(ctx, file.Path)
	if err != nil {
		return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: err}
	}

	outName := f.names.resolve(file.Name, OutputName(file.Name, profile.Format))
	outPath := filepath.Join(f.cfg.OutputDir, outName)

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.cfg.BinPath, buildFFmpegArgs(file.Path, outPath, profile)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: fmt.Errorf("failed to create stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: fmt.Errorf("failed to start ffmpeg: %w", err)}
	}

	scanned := make(chan struct{})
	go func() {
		defer close(scanned)
		monitorProgress(stderr, duration, onProgress)
	}()

	err = cmd.Wait()
	<-scanned

	if ctxErr := ctx.Err(); ctxErr != nil {
		os.Remove(outPath)
		kind := KindCancelled
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return model.Output{}, &Error{Kind: kind, File: file.Name, Err: ctxErr}
	}
	if err != nil {
		os.Remove(outPath)
		return model.Output{}, &Error{Kind: KindEncoding, File: file.Name, Err: err}
	}

	if onProgress != nil {
		onProgress(100)
	}

	return model.Output{
		Name:          outName,
		EstimatedSize: EstimateOutputSize(file.Size, f.cfg.ShrinkFactor),
		Profile:       profile,
		CompletedAt:   time.Now(),
	}, nil
}

// probeDuration gets the duration of an audio file in seconds using ffprobe.
func (f *FFmpeg) probeDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.cfg.ProbePath,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(output)
}

// parseDuration reads ffprobe's csv duration output into seconds.
func parseDuration(output []byte) (float64, error) {
	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", duration)
	}
	return duration, nil
}

// buildFFmpegArgs builds the ffmpeg command arguments for an audio-only
// encode to the target profile.
func buildFFmpegArgs(inputPath, outputPath string, profile model.Profile) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",                 // Drop any video streams
		"-c:a", profile.Codec, // Audio codec
		"-ar", strconv.Itoa(profile.SampleRate), // Sample rate
		"-ac", strconv.Itoa(profile.Channels), // Channel count
		"-sample_fmt", sampleFormat(profile.BitDepth), // Sample format
		"-compression_level", CompressionLevel, // Encoder effort
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// sampleFormat maps a bit depth to the ffmpeg sample format. FLAC carries
// 24-bit samples in s32 frames.
func sampleFormat(bitDepth int) string {
	if bitDepth <= 16 {
		return "s16"
	}
	return "s32"
}

// monitorProgress scans ffmpeg progress output and forwards percent values.
func monitorProgress(stderr io.ReadCloser, totalDuration float64, onProgress func(percent int)) {
	defer stderr.Close()
	scanner := bufio.NewScanner(stderr)

	lastPercent := -1
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if !strings.HasPrefix(line, ProgressTimePrefix) {
			continue
		}
		timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
		timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
		if err != nil {
			continue
		}

		percent, ok := progressPercent(timeMicroseconds, totalDuration)
		if !ok || percent <= lastPercent {
			continue
		}
		lastPercent = percent
		if onProgress != nil {
			onProgress(percent)
		}
	}
}

// progressPercent converts an out_time_us value to a percent of the total
// duration, clamped to [0, 100].
func progressPercent(timeMicroseconds int64, totalDuration float64) (int, bool) {
	if totalDuration <= 0 {
		return 0, false
	}
	timeSeconds := float64(timeMicroseconds) / 1000000.0
	progress := timeSeconds / totalDuration
	if progress < 0 {
		progress = 0
	}
	if progress > 1.0 {
		progress = 1.0
	}
	return int(progress * 100), true
}
