package scaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/interactions-toolbox/toolbox/internal/manifest"
)

// DefaultService is the service generated when none is requested.
const DefaultService = "hello"

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name        string // package short name, e.g. "sample"
	Qualified   string // e.g. "interactions.ext.sample"
	Title       string // base display name, e.g. "Sample"
	Description string
	Runtime     string // "exec" or "node"
	Service     string // generated service name
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewData creates Data with derived fields populated.
func NewData(name, prefix, runtime, service string) *Data {
	if runtime == "" {
		runtime = manifest.RuntimeExec
	}
	if service == "" {
		service = DefaultService
	}
	qualified := name
	if prefix != "" {
		qualified = prefix + "." + name
	}
	title := cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	return &Data{
		Name:        name,
		Qualified:   qualified,
		Title:       title,
		Description: fmt.Sprintf("%s extension", title),
		Runtime:     runtime,
		Service:     service,
	}
}

// Generate writes a new extension package into outputDir, which must be
// missing or empty. The generated manifest is validated; problems are
// reported as warnings.
func Generate(data *Data, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", data.Runtime)

	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("no scaffold for runtime %q: %w", data.Runtime, err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Check for existing files to prevent accidental overwrites.
	existingEntries, err := os.ReadDir(outputDir)
	if err == nil && len(existingEntries) > 0 {
		return nil, fmt.Errorf("output directory %s is not empty; remove existing files first", outputDir)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		// "service.*" templates are named after the generated service.
		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		if rest, ok := strings.CutPrefix(outName, "service."); ok {
			outName = data.Service + "." + rest
		}
		content, err := render(entry.Name(), string(tmplBytes), data)
		if err != nil {
			return nil, err
		}

		perm := os.FileMode(0644)
		if strings.HasSuffix(outName, ".sh") {
			perm = 0755
		}
		outPath := filepath.Join(outputDir, outName)
		if err := os.WriteFile(outPath, []byte(content), perm); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against JSON Schema.
	valResult, valErr := manifest.ValidateFile(filepath.Join(outputDir, manifest.FileName))
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}

func render(name, text string, data *Data) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.String(), nil
}
