package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~/exports/glue.yaml", want: filepath.Join(home, "exports/glue.yaml")},
		{in: "/var/lib/touch-settings", want: "/var/lib/touch-settings"},
		{in: "relative/camera.json", want: "relative/camera.json"},
		{in: "~", want: "~"},
		{in: "~other/glue.yaml", want: "~other/glue.yaml"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExistenceChecks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "glue.yaml")
	if err := os.WriteFile(file, []byte("fan_speed: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantFile bool
		wantDir  bool
	}{
		{name: "file", path: file, wantFile: true},
		{name: "directory", path: dir, wantDir: true},
		{name: "missing", path: filepath.Join(dir, "camera.json")},
		{name: "below a file", path: filepath.Join(file, "nested")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileExists(tt.path); got != tt.wantFile {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFile)
			}
			if got := DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "robot")

	for i := 0; i < 2; i++ {
		if err := EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir(%q) call %d: %v", dir, i+1, err)
		}
	}
	if !DirExists(dir) {
		t.Errorf("EnsureDir(%q) did not create the directory", dir)
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(filepath.Join(file, "data")); err == nil {
		t.Error("EnsureDir below a regular file should fail")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Glue", want: "glue"},
		{in: "Glue Types", want: "glue-types"},
		{in: "robot_calibration", want: "robot-calibration"},
		{in: "camera/../etc", want: "cameraetc"},
		{in: "Camera2", want: "camera2"},
		{in: "robot---config", want: "robot---config"},
		{in: "-leading", want: "-leading"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
