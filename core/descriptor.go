package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Descriptor is one endpoint record of a repository API schema.
type Descriptor struct {
	Method   string `json:"method" yaml:"method"`
	Path     string `json:"path" yaml:"path"`
	Extended string `json:"extended,omitempty" yaml:"extended,omitempty"`
}

// UnmarshalJSON accepts any JSON value for "extended". A string value is
// unquoted; objects, arrays, numbers and booleans are kept as raw JSON text.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		Method   string          `json:"method"`
		Path     string          `json:"path"`
		Extended json.RawMessage `json:"extended"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Method = raw.Method
	d.Path = raw.Path
	d.Extended = ""
	extended := bytes.TrimSpace(raw.Extended)
	if len(extended) == 0 || bytes.Equal(extended, []byte("null")) {
		return nil
	}
	if extended[0] == '"' {
		if err := json.Unmarshal(extended, &d.Extended); err != nil {
			return fmt.Errorf("invalid extended value for %s %s: %w", raw.Method, raw.Path, err)
		}
		return nil
	}
	d.Extended = string(extended)
	return nil
}

// Name returns the derived method name of the descriptor.
func (d Descriptor) Name() string {
	return MethodName(d.Method, d.Path)
}

func (d Descriptor) String() string {
	return strings.TrimSpace(d.Method + " " + d.Path)
}
