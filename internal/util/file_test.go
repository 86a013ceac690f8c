package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsScenarioFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ramp.yaml", "drop.YML", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"ramp.yaml", true},
		{"drop.YML", true},
		{"notes.txt", false},
		{"nested.yaml", false},
		{"missing.yaml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScenarioFile(filepath.Join(dir, tt.name)); got != tt.want {
				t.Errorf("IsScenarioFile(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestGetFileStem(t *testing.T) {
	if got := GetFileStem("/tmp/scenarios/ramp.up.yaml"); got != "ramp.up" {
		t.Errorf("GetFileStem() = %q, want ramp.up", got)
	}
}

func TestEnsureDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDirectory(dir); err != nil {
		t.Fatalf("EnsureDirectory() error = %v", err)
	}
	if !DirectoryExists(dir) {
		t.Error("directory not created")
	}
	if FileExists(dir) {
		t.Error("FileExists() true for a directory")
	}
}

func TestIsTerminalOnRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if IsTerminal(f.Fd()) {
		t.Error("regular file reported as terminal")
	}
}
