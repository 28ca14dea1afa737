package manifest

// FileName is the manifest file that marks a namespace directory as an
// extension package.
const FileName = "extension.yaml"

// ExtensionManifest is the decoded form of extension.yaml.
type ExtensionManifest struct {
	Name          string             `yaml:"name" json:"name"`
	Version       *StructuredVersion `yaml:"version,omitempty" json:"version,omitempty"`
	VersionString string             `yaml:"version_string,omitempty" json:"version_string,omitempty"`
	Description   string             `yaml:"description,omitempty" json:"description,omitempty"`
	Author        string             `yaml:"author,omitempty" json:"author,omitempty"`
	Tags          []string           `yaml:"tags,omitempty" json:"tags,omitempty"`
	Base          *BaseDeclaration   `yaml:"base,omitempty" json:"base,omitempty"`
}

// StructuredVersion is the mapping form of an extension version.
type StructuredVersion struct {
	Major      uint64 `yaml:"major" json:"major"`
	Minor      uint64 `yaml:"minor" json:"minor"`
	Patch      uint64 `yaml:"patch" json:"patch"`
	Prerelease string `yaml:"prerelease,omitempty" json:"prerelease,omitempty"`
	Metadata   string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// BaseDeclaration declares the object that aggregates an extension's services.
type BaseDeclaration struct {
	Name        string                        `yaml:"name,omitempty" json:"name,omitempty"`
	Description string                        `yaml:"description,omitempty" json:"description,omitempty"`
	Link        string                        `yaml:"link,omitempty" json:"link,omitempty"`
	Services    map[string]ServiceDeclaration `yaml:"services,omitempty" json:"services,omitempty"`
}

// ServiceDeclaration describes a command-backed service.
type ServiceDeclaration struct {
	Runtime     string            `yaml:"runtime" json:"runtime"`
	Command     []string          `yaml:"command" json:"command"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Runtime identifiers accepted in service declarations.
const (
	RuntimeExec = "exec"
	RuntimeNode = "node"
)

// ValidRuntimes contains all valid service runtime values.
var ValidRuntimes = []string{
	RuntimeExec,
	RuntimeNode,
}
