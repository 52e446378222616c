package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qrs-tools/go-qrs-client/core"
)

type callOptions struct {
	templates []string
	queries   []string
	body      string
	outFile   string
	timeout   time.Duration
}

func newCallCmd(opts *options) *cobra.Command {
	callOpts := &callOptions{}
	cmd := &cobra.Command{
		Use:   "call NAME [flags]",
		Short: "Invoke a registered method",
		Long: `Invoke a registered method and print its response.

Path placeholders are filled with --template, query parameters are appended with
--query (after xrfkey). The request body is read from --body, "-" meaning stdin.

Examples:
  # Get one app
  qrsctl call getAppId --template id=0b5c6a1e-...

  # Filter users
  qrsctl call getUser --query "filter=userId eq 'sa_repository'" -o table

  # Create a stream
  echo '{"name":"Finance"}' | qrsctl call postStream --body -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat("json")
			if err != nil {
				return err
			}
			templateParams, err := parseParams(callOpts.templates)
			if err != nil {
				return fmt.Errorf("--template: %w", err)
			}
			queryParams, err := parseParams(callOpts.queries)
			if err != nil {
				return fmt.Errorf("--query: %w", err)
			}
			body, err := readBody(callOpts.body, cmd.InOrStdin())
			if err != nil {
				return err
			}
			rest, err := opts.newClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if callOpts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, callOpts.timeout)
				defer cancel()
			}
			callArgs := &core.Args{
				QueryParams:    queryParams,
				TemplateParams: templateParams,
			}
			if body != nil {
				callArgs.Body = body
			}
			result, err := rest.Call(ctx, args[0], callArgs)
			if err != nil {
				return err
			}
			if callOpts.outFile != "" {
				return writeResult(callOpts.outFile, result)
			}
			return render(cmd.OutOrStdout(), result, format)
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&callOpts.templates, "template", "t", nil, "path placeholder value as key=value (repeatable)")
	flags.StringArrayVarP(&callOpts.queries, "query", "q", nil, "query parameter as key=value (repeatable)")
	flags.StringVarP(&callOpts.body, "body", "b", "", `request body file, "-" for stdin`)
	flags.StringVar(&callOpts.outFile, "out-file", "", "write the response to a file instead of stdout")
	flags.DurationVar(&callOpts.timeout, "timeout", 0, "request timeout (0 means none)")
	return cmd
}

// parseParams converts key=value pairs. The value may contain '='.
func parseParams(pairs []string) (core.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(core.Params, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		params[key] = value
	}
	return params, nil
}

// readBody returns nil when no body is requested.
func readBody(source string, stdin io.Reader) ([]byte, error) {
	switch source {
	case "":
		return nil, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read body from stdin: %w", err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}
}

// writeResult stores raw responses byte for byte and JSON objects indented.
func writeResult(path string, result core.Renderable) error {
	var data []byte
	switch typed := result.(type) {
	case core.Raw:
		data = typed
	default:
		data = []byte(result.PrettyJson() + "\n")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
