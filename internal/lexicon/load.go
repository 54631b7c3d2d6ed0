package lexicon

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingKey is returned when a required list is absent from the document
	ErrMissingKey = errors.New("lexicon: missing required key")

	// ErrUnsupportedFormat is returned for files that are neither JSON nor YAML
	ErrUnsupportedFormat = errors.New("lexicon: unsupported file format")
)

// Format identifies the encoding of a lexicon document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document mirrors Lists with pointer fields so that an absent key can be
// told apart from an empty list.
type document struct {
	Directions  *[]string `json:"dir_list" yaml:"dir_list"`
	SubAddress  *[]string `json:"subadd_list" yaml:"subadd_list"`
	Cities      *[]string `json:"city_list" yaml:"city_list"`
	StreetTypes *[]string `json:"sttype_list" yaml:"sttype_list"`
}

// Load reads a lexicon document from path. The format is chosen by file
// extension: .json, .yaml or .yml.
func Load(path string) (*Lexicon, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon %s: %w", path, err)
	}

	lex, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load lexicon %s: %w", path, err)
	}
	return lex, nil
}

func formatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Parse decodes a lexicon document. All four lists must be present; any of
// them may be empty.
func Parse(data []byte, format Format) (*Lexicon, error) {
	var doc document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	lists, err := doc.lists()
	if err != nil {
		return nil, err
	}
	return New(lists), nil
}

func (d document) lists() (Lists, error) {
	var missing []string
	take := func(key string, v *[]string) []string {
		if v == nil {
			missing = append(missing, key)
			return nil
		}
		return *v
	}

	lists := Lists{
		Directions:  take("dir_list", d.Directions),
		SubAddress:  take("subadd_list", d.SubAddress),
		Cities:      take("city_list", d.Cities),
		StreetTypes: take("sttype_list", d.StreetTypes),
	}
	if len(missing) > 0 {
		return Lists{}, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}
	return lists, nil
}
