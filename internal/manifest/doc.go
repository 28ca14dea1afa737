// Package manifest handles parsing and validation of extension manifests
// (extension.yaml). The manifest is the package marker of an extension
// directory: it declares the extension's name, optional structured or string
// version, and an optional base exposing named services. Validation runs
// against the JSON schema embedded from schema/extension.schema.json.
package manifest
