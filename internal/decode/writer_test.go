package decode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWritePlaintexts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		p1, p2 string
	}{
		{name: "short texts", p1: "hello", p2: "world"},
		{name: "empty texts", p1: "", p2: ""},
		{name: "leading and trailing spaces", p1: "  it was ", p2: " the best"},
		{name: "long texts", p1: strings.Repeat("A", 1024), p2: strings.Repeat("b", 1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path1 := filepath.Join(tmpDir, "plain1.txt")
			path2 := filepath.Join(tmpDir, "plain2.txt")

			if err := WritePlaintexts(tt.p1, tt.p2, path1, path2); err != nil {
				t.Fatalf("WritePlaintexts() error = %v", err)
			}

			for path, want := range map[string]string{path1: tt.p1, path2: tt.p2} {
				content, err := os.ReadFile(path)
				if err != nil {
					t.Fatalf("Failed to read %s: %v", path, err)
				}
				if string(content) != want {
					t.Errorf("%s = %q, want %q", filepath.Base(path), content, want)
				}
			}
		})
	}
}

func TestWritePlaintexts_InvalidPath(t *testing.T) {
	tmpDir := t.TempDir()
	invalidPath := "/nonexistent/directory/that/should/not/exist/plain2.txt"

	err := WritePlaintexts("a", "b", filepath.Join(tmpDir, "plain1.txt"), invalidPath)
	if err == nil {
		t.Fatal("Expected error when writing to invalid path, got nil")
	}
	if Classify(err) != CodeSink {
		t.Errorf("Classify() = %s, want %s", Classify(err), CodeSink)
	}
	if !strings.Contains(err.Error(), invalidPath) {
		t.Errorf("Error %q does not name the failing path", err)
	}
}

func TestWritePlaintexts_SecondFailureLeavesNothing(t *testing.T) {
	tests := []struct {
		name  string
		path2 func(dir string) string
	}{
		{
			name:  "missing directory",
			path2: func(string) string { return "/nonexistent/dir/plain2.txt" },
		},
		{
			name: "target is a directory",
			path2: func(dir string) string {
				p := filepath.Join(dir, "plain2.txt")
				if err := os.Mkdir(p, 0755); err != nil {
					t.Fatalf("Failed to create directory: %v", err)
				}
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path1 := filepath.Join(tmpDir, "plain1.txt")
			path2 := tt.path2(tmpDir)

			err := WritePlaintexts("HELLO", "WORLD", path1, path2)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if Classify(err) != CodeSink {
				t.Errorf("Classify() = %s, want %s", Classify(err), CodeSink)
			}

			if _, statErr := os.Stat(path1); !os.IsNotExist(statErr) {
				t.Errorf("%s exists after a failed write", path1)
			}

			entries, err := os.ReadDir(tmpDir)
			if err != nil {
				t.Fatalf("Failed to read dir: %v", err)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".plain") {
					t.Errorf("Temporary file %s left behind", e.Name())
				}
			}
		})
	}
}

func TestWritePlaintexts_FileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain1.txt")
	if err := WritePlaintexts("a", "b", path, path+".2"); err != nil {
		t.Fatalf("WritePlaintexts() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("Mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestWritePlaintexts_Overwrite(t *testing.T) {
	tmpDir := t.TempDir()
	path1 := filepath.Join(tmpDir, "plain1.txt")
	path2 := filepath.Join(tmpDir, "plain2.txt")

	if err := WritePlaintexts("first run text", "first run text", path1, path2); err != nil {
		t.Fatalf("Initial WritePlaintexts() error = %v", err)
	}
	if err := WritePlaintexts("second", "run", path1, path2); err != nil {
		t.Fatalf("Overwrite WritePlaintexts() error = %v", err)
	}

	content, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("Expected overwritten content %q, got %q", "second", content)
	}
}
