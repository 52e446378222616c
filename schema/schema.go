// Package schema loads repository API endpoint descriptors from schema files.
//
// Two file layouts are understood: a JSON array whose elements are either
// descriptor objects or JSON-encoded strings of descriptor objects, and a YAML
// list of descriptor objects. OpenAPI v3 documents are converted by FromOpenAPI.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/qrs-tools/go-qrs-client/core"
)

const (
	// DefaultVersion is the repository API version of the bundled schema.
	DefaultVersion = "3.2.2"
	// DefaultFile is the file name of the bundled schema.
	DefaultFile = DefaultVersion + ".json"
)

var (
	//go:embed schemas/*.json
	FS             embed.FS
	defaultOnce    sync.Once
	defaultSchema  []core.Descriptor
	defaultErr     error
	defaultRelPath = "schemas/" + DefaultFile
)

// Default returns the descriptors of the bundled schema.
// The embedded file is parsed once; the returned slice is a copy.
func Default() ([]core.Descriptor, error) {
	defaultOnce.Do(func() {
		data, err := FS.ReadFile(defaultRelPath)
		if err != nil {
			defaultErr = fmt.Errorf("read embedded schema: %w", err)
			return
		}
		defaultSchema, defaultErr = Parse(data)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	out := make([]core.Descriptor, len(defaultSchema))
	copy(out, defaultSchema)
	return out, nil
}

// Load reads and parses a schema file.
func Load(path string) ([]core.Descriptor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("unsupported schema file %q: expected .json, .yaml or .yml", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	descriptors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	return descriptors, nil
}

// Parse decodes schema data. Input starting with '[' that is valid JSON is
// decoded as JSON; anything else is decoded as YAML.
func Parse(data []byte) ([]core.Descriptor, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty schema")
	}
	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err == nil {
			return parseJSONItems(items)
		}
	}
	return parseYAML(trimmed)
}

func parseJSONItems(items []json.RawMessage) ([]core.Descriptor, error) {
	descriptors := make([]core.Descriptor, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		// Double-encoded entry: "{\"method\":\"GET\",...}"
		if len(item) > 0 && item[0] == '"' {
			var encoded string
			if err := json.Unmarshal(item, &encoded); err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			item = []byte(encoded)
		}
		var d core.Descriptor
		if err := json.Unmarshal(item, &d); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func parseYAML(data []byte) ([]core.Descriptor, error) {
	var items []any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("schema is neither a JSON array nor a YAML list: %w", err)
	}
	descriptors := make([]core.Descriptor, 0, len(items))
	for i, item := range items {
		var (
			d   core.Descriptor
			err error
		)
		switch v := item.(type) {
		case string:
			err = json.Unmarshal([]byte(v), &d)
		case map[string]any:
			d, err = descriptorFromMap(v)
		default:
			err = fmt.Errorf("unexpected %T", item)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// descriptorFromMap keeps non-string "extended" values as JSON text,
// the same way Descriptor.UnmarshalJSON does.
func descriptorFromMap(m map[string]any) (core.Descriptor, error) {
	d := core.Descriptor{
		Method: fmt.Sprint(valueOr(m["method"], "")),
		Path:   fmt.Sprint(valueOr(m["path"], "")),
	}
	switch extended := m["extended"].(type) {
	case nil:
	case string:
		d.Extended = extended
	default:
		b, err := json.Marshal(extended)
		if err != nil {
			return d, fmt.Errorf("invalid extended value for %s: %w", d, err)
		}
		d.Extended = string(b)
	}
	return d, nil
}

func valueOr(v, fallback any) any {
	if v == nil {
		return fallback
	}
	return v
}
