// Package storage defines the formula directory abstraction.
package storage

import "github.com/starford/tonic/internal/models"

// Provider is the interface for formula file operations.
// All paths are relative to the formula directory.
type Provider interface {
	// List returns metadata for every YAML file under dir.
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}

// IsFormulaFile reports whether name has a YAML extension.
func IsFormulaFile(name string) bool {
	return hasSuffixFold(name, ".yaml") || hasSuffixFold(name, ".yml")
}
