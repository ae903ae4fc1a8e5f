package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "pair.yaml")
	if err := os.WriteFile(filePath, []byte(glassYAML), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		sceneName   string
		expectError bool
		spheres     int
	}{
		{"default scene", "default", false, 6},
		{"spheregrid scene", "spheregrid", false, 23},
		{"empty scene", "empty", false, 0},
		{"scene file", filePath, false, 2},
		{"missing scene file", filepath.Join(dir, "nope.yaml"), true, 0},
		{"unknown scene", "cornell", true, 0},
		{"empty scene name", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Create(tt.sceneName)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error for scene %q, got none", tt.sceneName)
				}
				if !errors.Is(err, ErrUnknownScene) {
					t.Errorf("Expected ErrUnknownScene, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene %q: %v", tt.sceneName, err)
			}
			if got := s.GetPrimitiveCount(); got != tt.spheres {
				t.Errorf("Expected %d spheres, got %d", tt.spheres, got)
			}
		})
	}
}

func TestBuiltIn(t *testing.T) {
	tests := []struct {
		name    string
		ok      bool
		spheres int
	}{
		{"default", true, 6},
		{"spheregrid", true, 23},
		{"empty", true, 0},
		{"Default", false, 0},
		{"default.yaml", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := BuiltIn(tt.name)
			if ok != tt.ok {
				t.Fatalf("BuiltIn(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && s.GetPrimitiveCount() != tt.spheres {
				t.Errorf("Expected %d spheres, got %d", tt.spheres, s.GetPrimitiveCount())
			}
		})
	}

	a, _ := BuiltIn("default")
	b, _ := BuiltIn("default")
	if a == b {
		t.Error("Expected a fresh scene per call")
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pair.yaml"), []byte(glassYAML+"group: Glass\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken-scene.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes: %v", err)
	}

	if len(response.Groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d: %+v", len(response.Groups), response.Groups)
	}
	if response.Groups[0].Name != builtInGroup {
		t.Errorf("Expected built-in group first, got %q", response.Groups[0].Name)
	}
	if got := len(response.Groups[0].Scenes); got != len(BuiltInNames()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(BuiltInNames()), got)
	}

	byGroup := map[string]SceneInfo{}
	for _, g := range response.Groups[1:] {
		if len(g.Scenes) != 1 {
			t.Fatalf("Expected one scene in group %q, got %d", g.Name, len(g.Scenes))
		}
		byGroup[g.Name] = g.Scenes[0]
	}

	pair := byGroup["Glass"]
	if pair.Name != "glass pair" || pair.Description != "Two spheres and a light" || pair.Type != "file" {
		t.Errorf("Unexpected metadata for pair.yaml: %+v", pair)
	}

	broken := byGroup["Scene Files"]
	if broken.DisplayName != "Broken Scene" {
		t.Errorf("Expected fallback display name, got %q", broken.DisplayName)
	}
}

func TestListFileScenes_MissingDir(t *testing.T) {
	scenes, err := ListFileScenes(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenes) != 0 {
		t.Errorf("Expected no scenes, got %d", len(scenes))
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("glass-trio_demo"); got != "Glass Trio Demo" {
		t.Errorf("titleCase = %q", got)
	}
}
