package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/qrs-tools/go-qrs-client/core"
)

// render writes result in the given format. "raw" writes Raw bytes unchanged
// and other results as compact JSON.
func render(w io.Writer, result core.Renderable, format string) error {
	var err error
	switch format {
	case "table":
		_, err = fmt.Fprintln(w, result.PrettyTable())
	case "raw":
		if raw, ok := result.(core.Raw); ok {
			_, err = w.Write(raw)
			return err
		}
		var data []byte
		if data, err = json.Marshal(result); err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
	default:
		_, err = fmt.Fprintln(w, result.PrettyJson())
	}
	return err
}
