// Package config loads and parses job configuration documents.
//
// Documents are TOML unless the path (or URL path) ends in .yaml/.yml. Decoding is
// strict: unknown fields are errors, and fields that take a list also accept a single
// string, normalized to a one-element list.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"tasker/internal/domain/consts"
	"tasker/internal/models"
	"tasker/internal/utils/logging"
	"tasker/internal/validation"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a document syntax.
type Format int

// Supported document formats.
const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// FormatFromPath picks the document format from a file path or URL path.
func FormatFromPath(p string) Format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// LoadError is returned when the configuration file cannot be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load config %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses the configuration file at the given path.
func Load(file string) (*models.Config, error) {
	if _, err := validation.ValidateFile(file); err != nil {
		return nil, &LoadError{Path: file, Err: err}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &LoadError{Path: file, Err: err}
	}

	cfg, err := Parse(data, FormatFromPath(file))
	if err != nil {
		return nil, &LoadError{Path: file, Err: err}
	}

	logging.D(2, "Loaded config %q: %d profile(s), %d download(s), %d remote job source(s)",
		file, len(cfg.Profiles), len(cfg.Downloads), len(cfg.RemoteJob))
	return cfg, nil
}

// Parse parses a full configuration document and fills in defaults.
func Parse(data []byte, format Format) (*models.Config, error) {
	cfg := &models.Config{
		BinName:  consts.DefaultBinName,
		Interval: consts.DefaultIntervalSecs,
	}

	defined, err := decode(data, format, cfg)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.BinName) == "" {
		return nil, errors.New("bin_name must not be empty")
	}
	if cfg.Interval < 0 {
		return nil, fmt.Errorf("interval must not be negative, got %d", cfg.Interval)
	}
	if err := checkRequired(defined, cfg.Profiles, cfg.Downloads); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseTaskSource parses a remote job document (profiles and downloads only).
func ParseTaskSource(data []byte, format Format) (models.TaskSource, error) {
	var src models.TaskSource
	defined, err := decode(data, format, &src)
	if err != nil {
		return models.TaskSource{}, err
	}
	if err := checkRequired(defined, src.Profiles, src.Downloads); err != nil {
		return models.TaskSource{}, err
	}
	return src, nil
}

// decode strictly decodes data into v. The returned function reports whether
// a top-level key was present with a non-null value.
func decode(data []byte, format Format, v any) (func(key string) bool, error) {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("document is empty")
			}
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}

		var top map[string]any
		if err := yaml.Unmarshal(data, &top); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
		return func(key string) bool {
			val, ok := top[key]
			return ok && val != nil
		}, nil

	default:
		md, err := toml.Decode(string(data), v)
		if err != nil {
			return nil, fmt.Errorf("invalid toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			unknown := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				unknown = append(unknown, k.String())
			}
			return nil, fmt.Errorf("unknown field(s): %s", strings.Join(unknown, ", "))
		}
		return func(key string) bool { return md.IsDefined(key) }, nil
	}
}

// checkRequired reports fields that were omitted from a document.
//
// The top-level profile and download lists must be present, though they may be
// empty. Lists inside entries are already known to be non-empty from decoding.
func checkRequired(defined func(string) bool, profiles []models.Profile, downloads []models.Download) error {
	for _, key := range []string{"profile", "download"} {
		if !defined(key) {
			return fmt.Errorf("missing field %q", key)
		}
	}
	for i, p := range profiles {
		if p.Name == "" {
			return fmt.Errorf("profile[%d]: missing field \"name\"", i)
		}
	}
	for i, d := range downloads {
		switch {
		case d.Name == "":
			return fmt.Errorf("download[%d]: missing field \"name\"", i)
		case len(d.Profiles) == 0:
			return fmt.Errorf("download[%d] (%s): missing field \"profile\"", i, d.Name)
		case len(d.URLs) == 0:
			return fmt.Errorf("download[%d] (%s): missing field \"url\"", i, d.Name)
		}
	}
	return nil
}
