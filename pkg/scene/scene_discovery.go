package scene

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownScene is returned by Create for names that are neither built in
// nor a readable scene file
var ErrUnknownScene = errors.New("unknown scene")

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete list of scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtIn struct {
	info   SceneInfo
	create func() *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Glass sphere, three mirror spheres and a spherical light over a huge ground sphere",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "Seeded 5x4 grid of diffuse, mirror and glass spheres lit by two lights",
		},
		create: func() *Scene { return NewSphereGridScene(DefaultGridSeed) },
	},
	{
		info: SceneInfo{
			ID:          "empty",
			Name:        "Empty Scene",
			Description: "No spheres; every pixel is background",
		},
		create: func() *Scene { return New("empty") },
	},
}

// BuiltInNames returns the names of the built-in scenes
func BuiltInNames() []string {
	names := make([]string, 0, len(builtIns))
	for _, b := range builtIns {
		names = append(names, b.info.ID)
	}
	return names
}

// BuiltIn returns a fresh copy of the built-in scene with the given id
func BuiltIn(name string) (*Scene, bool) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.create(), true
		}
	}
	return nil, false
}

// Create resolves a built-in scene name or a path to a scene file
func Create(name string) (*Scene, error) {
	if s, ok := BuiltIn(name); ok {
		return s, nil
	}
	if _, err := FormatFromPath(name); err == nil {
		if _, statErr := os.Stat(name); statErr == nil {
			return Load(name)
		}
	}
	return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
}

// ListFileScenes scans dir for scene files. A missing directory yields no scenes.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan scenes directory")
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, parseFileMetadata(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// parseFileMetadata reads name, description and group from a scene file,
// falling back to values derived from the filename.
func parseFileMetadata(filePath string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          filePath,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	format, err := FormatFromPath(filePath)
	if err != nil {
		return info
	}
	f, err := os.Open(filePath)
	if err != nil {
		return info
	}
	defer f.Close()

	d, err := DecodeDescription(f, format)
	if err != nil {
		return info
	}
	if d.Name != "" {
		info.Name = d.Name
		info.DisplayName = d.Name
	}
	if d.Group != "" {
		info.Group = d.Group
	}
	info.Description = d.Description
	return info
}

// ListAllScenes returns built-in scenes and the scene files in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	all := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		all = append(all, info)
	}

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, errors.Wrap(err, "failed to list scene files")
	}
	all = append(all, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, s := range all {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: groupMap[builtInGroup]})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-trio" -> "Glass Trio"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
