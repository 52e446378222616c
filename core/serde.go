package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bndr/gotabulate"
	"github.com/vmihailenco/msgpack/v5"
)

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	"id":            empty,
	"name":          empty,
	"method":        empty,
	"path":          empty,
	"params":        empty,
	"extended":      empty,
	"userId":        empty,
	"userDirectory": empty,
	"modifiedDate":  empty,
	"published":     empty,
}

type FillFunc func(Record, any) error

var fillFunc FillFunc = func(r Record, container any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, container)
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value parameters,
// used for query strings and path template substitution.
type Params map[string]any

// ToQuery serializes the Params into a URL-encoded query string.
// Keys are sorted and values are stringified using fmt.Sprint.
func (pr Params) ToQuery() string {
	values := url.Values{}
	for k, v := range pr {
		values.Set(k, fmt.Sprint(v))
	}
	return values.Encode()
}

// EncodeBody serializes a request body according to the content type.
// []byte, Raw and io.Reader values are sent verbatim; msgpack content
// types are encoded with MessagePack and everything else as JSON.
// A nil body yields an empty reader.
func EncodeBody(contentType string, body any) (io.Reader, error) {
	switch v := body.(type) {
	case nil:
		return bytes.NewReader(nil), nil
	case []byte:
		return bytes.NewReader(v), nil
	case Raw:
		return bytes.NewReader(v), nil
	case io.Reader:
		return v, nil
	}
	var (
		buffer []byte
		err    error
	)
	if isMsgpack(contentType) {
		buffer, err = msgpack.Marshal(body)
	} else {
		buffer, err = json.Marshal(body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(buffer), nil
}

func isMsgpack(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return mediaType == ContentTypeMsgpack || mediaType == ContentTypeXMsgpack
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed first from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs) // Sort to keep consistent order
	return attrs
}

// Renderable is an interface implemented by types that can render themselves
// into a human-readable string format, typically for CLI display or logging.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Filler is a generic interface for filling a struct or slice of structs.
type Filler interface {
	// Fill populates the given container with data from the implementing type.
	// The container can be a pointer to a struct (for Record),
	// or a pointer to a slice of structs (for RecordSet).
	Fill(container any) error
}

var (
	_ Renderable = Record{}
	_ Renderable = RecordSet{}
	_ Renderable = Raw{}
	_ Filler     = Record{}
	_ Filler     = RecordSet{}
)

// Record represents a single generic JSON object.
// Invocations return a Record when the response is classified as a JSON object,
// and the registry uses it for method info snapshots.
type Record map[string]any

// RecordSet represents a list of Record objects.
type RecordSet []Record

// Raw is the concatenated response body of an invocation whose first chunk
// did not look like a complete JSON object.
type Raw []byte

// Fill populates the exported fields of the given struct pointer using values
// from the Record. Keys are mapped to fields by their `json` tags.
//
// Returns an error if the container is not a pointer to a struct or if serialization fails.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	val = val.Elem()
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	return fillFunc(r, container)
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	remainingAttrs := make(map[string]any)
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok && value != nil {
			remainingAttrs[key] = value
		}
	}
	if len(remainingAttrs) > 0 {
		remainingJSON, _ := json.Marshal(remainingAttrs)
		rows = append(rows, []any{"<<remaining attrs>>", string(remainingJSON)})
	}
	if len(rows) == 0 {
		return "<>"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	return marshalPretty(r, indent...)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs (e.g., *[]T or *[]*T).
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}

	sliceVal := val.Elem()
	if sliceVal.Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}

	elemType := sliceVal.Type().Elem()
	isPtrElem := elemType.Kind() == reflect.Ptr

	var targetType reflect.Type
	if isPtrElem {
		if elemType.Elem().Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be pointer to a struct")
		}
		targetType = elemType.Elem()
	} else {
		if elemType.Kind() != reflect.Struct {
			return fmt.Errorf("slice element must be a struct")
		}
		targetType = elemType
	}

	for _, record := range rs {
		elemPtr := reflect.New(targetType)
		if err := record.Fill(elemPtr.Interface()); err != nil {
			return err
		}
		if isPtrElem {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr))
		} else {
			sliceVal.Set(reflect.Append(sliceVal, elemPtr.Elem()))
		}
	}
	return nil
}

// PrettyTable renders the RecordSet as a single table, one row per record,
// using the printable attributes present in the first record as columns.
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	headers := getPrintableAttrs(rs[0])
	if len(headers) == 0 {
		var out strings.Builder
		for i, record := range rs {
			out.WriteString(record.PrettyTable())
			if i < len(rs)-1 {
				out.WriteString("\n")
			}
		}
		return out.String()
	}
	rows := make([][]any, 0, len(rs))
	for _, record := range rs {
		row := make([]any, len(headers))
		for i, key := range headers {
			if val, ok := record[key]; ok && val != nil {
				row[i] = fmt.Sprintf("%v", val)
			} else {
				row[i] = ""
			}
		}
		rows = append(rows, row)
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render("grid")
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	return marshalPretty(rs, indent...)
}

// PrettyTable prints the size of the body and, for text content, a preview.
func (r Raw) PrettyTable() string {
	rows := [][]any{{"bytes", fmt.Sprintf("%d", len(r))}}
	if len(r) > 0 && utf8.Valid(r) {
		rows = append(rows, []any{"content", string(r)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders([]string{"attr", "value"})
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson returns the body re-indented when it holds valid JSON,
// otherwise the body encoded as a JSON string.
func (r Raw) PrettyJson(indent ...string) string {
	if json.Valid(r) {
		if len(indent) == 0 {
			return string(r)
		}
		var b bytes.Buffer
		if err := json.Indent(&b, r, "", indent[0]); err == nil {
			return b.String()
		}
	}
	return marshalPretty(string(r), indent...)
}

func (r Raw) Empty() bool {
	return len(r) == 0
}

func (r Raw) String() string {
	return string(r)
}

func marshalPretty(v any, indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(v, "", indent[0])
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}
