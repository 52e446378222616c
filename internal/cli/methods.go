package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrs-tools/go-qrs-client/core"
)

func newMethodsCmd(opts *options) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "methods [flags]",
		Short: "List the registered methods",
		Long: `List the methods registered from the schema, in registration order.

Examples:
  # All methods as a table
  qrsctl methods

  # Methods whose name contains "app", as JSON
  qrsctl methods --filter app -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat("table")
			if err != nil {
				return err
			}
			rest, err := opts.newClient()
			if err != nil {
				return err
			}
			methods := rest.ShowAllMethodsInfo()
			if filter != "" {
				methods = filterMethods(methods, filter)
			}
			return render(cmd.OutOrStdout(), methods, format)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "case-insensitive substring of the method name")
	return cmd
}

func filterMethods(methods core.RecordSet, filter string) core.RecordSet {
	filter = strings.ToLower(filter)
	out := make(core.RecordSet, 0, len(methods))
	for _, m := range methods {
		if strings.Contains(strings.ToLower(fmt.Sprint(m["name"])), filter) {
			out = append(out, m)
		}
	}
	return out
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info NAME",
		Short: "Show verb, path, params and extended metadata of a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat("table")
			if err != nil {
				return err
			}
			rest, err := opts.newClient()
			if err != nil {
				return err
			}
			info := rest.ShowMethodInfo(args[0])
			if info.Empty() {
				return &core.MethodNotFoundError{Name: args[0]}
			}
			return render(cmd.OutOrStdout(), info, format)
		},
	}
}
