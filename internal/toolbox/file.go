package toolbox

import (
	"context"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// FileName is the default name of a declarative toolbox file.
const FileName = "toolbox.yaml"

// File is the toolbox.yaml document: the tools a bot loads at startup.
type File struct {
	Tools []ToolEntry `yaml:"tools"`
}

// ToolEntry names a service and the extension providing it.
type ToolEntry struct {
	Name      string `yaml:"name"`
	Extension string `yaml:"extension"`
}

// LoadFile reads and parses a toolbox.yaml file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading toolbox file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing toolbox file %s: %w", path, err)
	}

	for i, entry := range f.Tools {
		if entry.Name == "" || entry.Extension == "" {
			return nil, fmt.Errorf("toolbox file %s: tools[%d] needs both name and extension", path, i)
		}
	}

	return &f, nil
}

// SaveFile writes f to path.
func SaveFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling toolbox file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing toolbox file %s: %w", path, err)
	}

	return nil
}

// Find returns the entry for the named tool, or nil if not found.
func (f *File) Find(name string) *ToolEntry {
	for i := range f.Tools {
		if f.Tools[i].Name == name {
			return &f.Tools[i]
		}
	}
	return nil
}

// AddEntry appends a tool entry. Tool names are unique within a file.
func (f *File) AddEntry(entry ToolEntry) error {
	if f.Find(entry.Name) != nil {
		return fmt.Errorf("%w: %q in toolbox file", ErrDuplicateTool, entry.Name)
	}
	f.Tools = append(f.Tools, entry)
	return nil
}

// RemoveEntry removes the entry for the named tool.
func (f *File) RemoveEntry(name string) error {
	for i, entry := range f.Tools {
		if entry.Name == name {
			f.Tools = append(f.Tools[:i], f.Tools[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q in toolbox file", ErrToolNotFound, name)
}

// AddAll registers every tool in f, in file order. It stops at the first
// failure; tools added before it stay registered.
func (t *Tools) AddAll(ctx context.Context, f *File) error {
	for _, entry := range f.Tools {
		if _, err := t.Add(ctx, entry.Name, entry.Extension); err != nil {
			return fmt.Errorf("adding tool %q from %s: %w", entry.Name, entry.Extension, err)
		}
	}
	return nil
}
