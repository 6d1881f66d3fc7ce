package platform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/soundforge/flacpress/internal/model"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Audio file extensions mapped to their MIME-like type tags
var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".wave": "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".aif":  "audio/aiff",
	".aiff": "audio/aiff",
	".wma":  "audio/x-ms-wma",
	".mka":  "audio/x-matroska",
}

// TypeOf returns the MIME-like type tag for a file name based on its
// extension, or "" when the extension is not a known audio type.
func TypeOf(name string) string {
	return audioTypes[strings.ToLower(filepath.Ext(name))]
}

// Scan stats every path and returns the corresponding input files in the
// order given. Directories are expanded through Discover. Files with
// unknown extensions are returned with an empty type tag and left for the
// admission gate to reject.
func Scan(paths []string) ([]model.InputFile, error) {
	var files []model.InputFile
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}

		if info.IsDir() {
			found, err := Discover(p)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}

		files = append(files, model.InputFile{
			Name: info.Name(),
			Size: info.Size(),
			Type: TypeOf(info.Name()),
			Path: p,
		})
	}
	return files, nil
}

// Discover walks dir and collects audio files by extension, skipping hidden
// files and directories. Results are sorted by path for deterministic
// ordering.
func Discover(dir string) ([]model.InputFile, error) {
	var files []model.InputFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		fileType := TypeOf(name)
		if fileType == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, model.InputFile{
			Name: name,
			Size: info.Size(),
			Type: fileType,
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}
