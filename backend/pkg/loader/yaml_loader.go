package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Loader parses a raw config document into a Document.
type Loader interface {
	Load(data []byte) (*Document, error)
}

// YAMLLoader is the reference Loader implementation, backed by
// gopkg.in/yaml.v3.
type YAMLLoader struct{}

// NewYAMLLoader constructs a YAMLLoader.
func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

// Load parses data as a YAML Document.
func (YAMLLoader) Load(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadYAML, err)
	}
	return &doc, nil
}
