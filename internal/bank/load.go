package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/az104.json
var defaultBank []byte

// Format identifies a bank file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk shape of a bank file.
type Document struct {
	Exam   string  `json:"exam" yaml:"exam"`
	Title  string  `json:"title" yaml:"title"`
	Topics []Topic `json:"topics" yaml:"topics"`
}

// Default returns the embedded AZ-104 bank.
func Default() (*Bank, error) {
	return Parse(defaultBank, FormatJSON)
}

// DefaultJSON returns the raw embedded bank document.
func DefaultJSON() []byte {
	return defaultBank
}

// FormatFromPath picks a format from the file extension; anything that is
// not .yaml/.yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads and validates a bank file.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	b, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a bank document, checks it against Schema, and runs the
// semantic validation. Every failure wraps ErrInvalidQuestionBank.
func Parse(data []byte, format Format) (*Bank, error) {
	raw := data
	if format == FormatYAML {
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: invalid YAML: %v", ErrInvalidQuestionBank, err)
		}
		var err error
		if raw, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("re-encode YAML bank: %w", err)
		}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidQuestionBank, err)
	}
	return New(doc.Exam, doc.Title, doc.Topics)
}

// Doc returns the bank as a serializable document.
func (b *Bank) Doc() Document {
	return Document{
		Exam:   b.exam,
		Title:  b.title,
		Topics: b.Topics(),
	}
}

// Encode serializes the bank in the given format.
func Encode(b *Bank, format Format) ([]byte, error) {
	doc := b.Doc()
	if format == FormatYAML {
		return yaml.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", "  ")
}
