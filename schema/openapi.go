package schema

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/qrs-tools/go-qrs-client/core"
)

var openAPIVerbs = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// LoadOpenAPI loads an OpenAPI v3 document (JSON or YAML) and converts it with FromOpenAPI.
func LoadOpenAPI(path string) ([]core.Descriptor, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI document %s: %w", path, err)
	}
	return FromOpenAPI(doc)
}

// FromOpenAPI returns one descriptor per path and GET/POST/PUT/DELETE operation,
// sorted by path with verbs in GET, POST, PUT, DELETE order. The operation summary (or, when empty, the
// operation id) becomes the extended metadata.
func FromOpenAPI(doc *openapi3.T) ([]core.Descriptor, error) {
	if doc == nil {
		return nil, errors.New("OpenAPI document is nil")
	}
	if doc.Paths == nil {
		return nil, nil
	}
	paths := doc.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	var descriptors []core.Descriptor
	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, verb := range openAPIVerbs {
			op := item.GetOperation(verb)
			if op == nil {
				continue
			}
			extended := op.Summary
			if extended == "" {
				extended = op.OperationID
			}
			descriptors = append(descriptors, core.Descriptor{
				Method:   verb,
				Path:     path,
				Extended: extended,
			})
		}
	}
	return descriptors, nil
}
