package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"take.wav", "audio/wav"},
		{"take.WAV", "audio/wav"},
		{"song.mp3", "audio/mpeg"},
		{"song.m4a", "audio/mp4"},
		{"track.flac", "audio/flac"},
		{"bounce.aiff", "audio/aiff"},
		{"clip.mkv", ""},
		{"notes.txt", ""},
		{"noext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TypeOf(tt.name)
			if result != tt.expected {
				t.Errorf("TypeOf(%q) = %q, expected %q", tt.name, result, tt.expected)
			}
		})
	}
}

func TestScan_Files(t *testing.T) {
	tempDir := t.TempDir()

	wavPath := filepath.Join(tempDir, "take.wav")
	if err := os.WriteFile(wavPath, []byte("RIFFdata"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	files, err := Scan([]string{wavPath})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}

	if len(files) != 1 {
		t.Fatalf("Scan() returned %d files, expected 1", len(files))
	}
	f := files[0]
	if f.Name != "take.wav" || f.Type != "audio/wav" || f.Size != 8 || f.Path != wavPath {
		t.Errorf("Scan() file = %+v, expected take.wav metadata", f)
	}
}

func TestScan_MissingPath(t *testing.T) {
	_, err := Scan([]string{filepath.Join(t.TempDir(), "missing.wav")})
	if err == nil {
		t.Error("Expected error for a missing path, got nil")
	}
}

func TestScan_UnknownExtensionKeptForGate(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "clip.xyz")
	if err := os.WriteFile(path, []byte("???"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	files, err := Scan([]string{path})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}
	if len(files) != 1 || files[0].Type != "" {
		t.Errorf("Scan() = %+v, expected the file kept with an empty type", files)
	}
}

func TestDiscover(t *testing.T) {
	tempDir := t.TempDir()

	layout := map[string][]byte{
		"b.wav":           []byte("RIFF"),
		"a.mp3":           []byte("ID3"),
		"notes.txt":       []byte("not audio"),
		".hidden.wav":     []byte("RIFF"),
		"nested/c.flac":   []byte("fLaC"),
		".git/husk.wav":   []byte("RIFF"),
		"nested/skip.doc": []byte("doc"),
	}
	for rel, content := range layout {
		path := filepath.Join(tempDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	files, err := Discover(tempDir)
	if err != nil {
		t.Fatalf("Discover() error = %v, expected nil", err)
	}

	expected := []string{"a.mp3", "b.wav", "c.flac"} // sorted by path
	if len(files) != len(expected) {
		t.Fatalf("Discover() returned %d files (%v), expected %d", len(files), files, len(expected))
	}
	for i, name := range expected {
		if files[i].Name != name {
			t.Errorf("Discover()[%d] = %s, expected %s", i, files[i].Name, name)
		}
		if files[i].Type == "" {
			t.Errorf("Discover()[%d] has no type tag", i)
		}
	}
}

func TestScan_ExpandsDirectories(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "take.wav"), []byte("RIFF"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	files, err := Scan([]string{tempDir})
	if err != nil {
		t.Fatalf("Scan() error = %v, expected nil", err)
	}
	if len(files) != 1 || files[0].Name != "take.wav" {
		t.Errorf("Scan() = %+v, expected the directory expanded to take.wav", files)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}
