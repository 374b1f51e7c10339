package models

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var errEmptyList = errors.New("expected a string or a non-empty list of strings, got an empty list")

// StringList accepts either a single string or a non-empty list of strings.
//
// The scalar form is normalized to a one-element list while decoding, so
// code past the parser only ever sees a plain slice.
type StringList []string

// OptionalStringList is like StringList but also accepts an empty list.
type OptionalStringList []string

// UnmarshalTOML implements toml.Unmarshaler.
func (l *StringList) UnmarshalTOML(data any) error {
	vals, err := stringsFromTOML(data)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return errEmptyList
	}
	*l = vals
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	vals, err := stringsFromYAML(value)
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return errEmptyList
	}
	*l = vals
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (l *OptionalStringList) UnmarshalTOML(data any) error {
	vals, err := stringsFromTOML(data)
	if err != nil {
		return err
	}
	*l = vals
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *OptionalStringList) UnmarshalYAML(value *yaml.Node) error {
	vals, err := stringsFromYAML(value)
	if err != nil {
		return err
	}
	*l = vals
	return nil
}

// stringsFromTOML converts a raw decoded TOML value into a string slice.
func stringsFromTOML(data any) ([]string, error) {
	switch v := data.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list element %d: expected a string, got %T", i, elem)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings, got %T", data)
	}
}

// stringsFromYAML converts a YAML node into a string slice. Only string
// scalars are accepted, so `url: 42` fails the same way it does in TOML.
func stringsFromYAML(value *yaml.Node) ([]string, error) {
	switch value.Kind {
	case yaml.ScalarNode:
		s, err := yamlString(value)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for i, elem := range value.Content {
			s, err := yamlString(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("line %d: expected a string or a list of strings", value.Line)
	}
}

func yamlString(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!str" {
		return "", fmt.Errorf("line %d: expected a string, got %s", n.Line, n.ShortTag())
	}
	return n.Value, nil
}
