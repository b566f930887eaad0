package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// wrapperKey is where exported catalogs keep the template list when not stored as a bare array.
const wrapperKey = "exercise_templates"

var ErrEmptyCatalog = errors.New("exercise catalog is empty")

type Template struct {
	ID                    string   `json:"id" yaml:"id"`
	Title                 string   `json:"title" yaml:"title"`
	Type                  string   `json:"type,omitempty" yaml:"type,omitempty"`
	PrimaryMuscleGroup    string   `json:"primary_muscle_group" yaml:"primary_muscle_group"`
	SecondaryMuscleGroups []string `json:"secondary_muscle_groups,omitempty" yaml:"secondary_muscle_groups,omitempty"`
	Equipment             string   `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	IsCustom              bool     `json:"is_custom,omitempty" yaml:"is_custom,omitempty"`
}

type wrappedCatalog struct {
	Templates []Template `json:"exercise_templates" yaml:"exercise_templates"`
}

// LoadCatalog reads the static exercise catalog. YAML is picked by file extension, JSON otherwise.
func LoadCatalog(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var catalog []Template
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		catalog, err = ParseYAML(data)
	default:
		catalog, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	log.Debugf("loaded %d exercise templates from %s", len(catalog), path)
	return catalog, nil
}

// ParseJSON accepts either a bare array of templates or an object holding it under exercise_templates.
func ParseJSON(data []byte) ([]Template, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyCatalog
	}

	var catalog []Template
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &catalog); err != nil {
			return nil, fmt.Errorf("unmarshal template list: %w", err)
		}
	} else {
		var wrapped wrappedCatalog
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("unmarshal %s wrapper: %w", wrapperKey, err)
		}
		catalog = wrapped.Templates
	}

	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog, nil
}

func ParseYAML(data []byte) ([]Template, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, ErrEmptyCatalog
	}

	var catalog []Template
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&catalog); err != nil {
			return nil, fmt.Errorf("decode template list: %w", err)
		}
	case yaml.MappingNode:
		var wrapped wrappedCatalog
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode %s wrapper: %w", wrapperKey, err)
		}
		catalog = wrapped.Templates
	default:
		return nil, fmt.Errorf("unexpected yaml catalog root kind: %d", root.Kind)
	}

	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog, nil
}
