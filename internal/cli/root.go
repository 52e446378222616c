// Package cli implements the qrsctl command line client.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	client "github.com/qrs-tools/go-qrs-client"
	"github.com/qrs-tools/go-qrs-client/core"
)

// options holds the values of the persistent flags.
type options struct {
	host          string
	port          uint64
	prefix        string
	xrfkey        string
	insecure      bool
	skipVerify    bool
	cert          string
	key           string
	ca            string
	userDirectory string
	userId        string
	schema        string
	serverVersion string
	envFile       string
	logFile       string
	debug         bool
	output        string

	logger  *zap.Logger
	closeFn func()
}

// envBindings maps persistent flags to the environment variables that provide their defaults.
var envBindings = map[string]string{
	"host":                 "QRS_HOST",
	"port":                 "QRS_PORT",
	"prefix":               "QRS_PREFIX",
	"xrfkey":               "QRS_XRFKEY",
	"insecure":             "QRS_INSECURE",
	"insecure-skip-verify": "QRS_INSECURE_SKIP_VERIFY",
	"cert":                 "QRS_CERT",
	"key":                  "QRS_KEY",
	"ca":                   "QRS_CA",
	"user-directory":       "QRS_USER_DIRECTORY",
	"user-id":              "QRS_USER_ID",
	"schema":               "QRS_SCHEMA",
	"server-version":       "QRS_SERVER_VERSION",
	"log-file":             "QRS_LOG_FILE",
}

// Execute runs qrsctl with args and returns the process exit code.
func Execute(args []string) int {
	cmd, opts := newRootCmd()
	cmd.SetArgs(args)
	if err := execute(cmd, opts); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// execute runs cmd and flushes the logger afterwards. PersistentPostRun is
// skipped when a command fails, so the flush cannot live there.
func execute(cmd *cobra.Command, opts *options) error {
	defer opts.close()
	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "qrsctl [command] [flags]",
		Short: "qrsctl - call Qlik Sense Repository Service endpoints",
		Long: `qrsctl registers the endpoints of a repository API schema as named methods and calls them.

Connection settings are taken from flags, then from QRS_* environment variables
(optionally loaded from an .env file), then from built-in defaults.

Examples:
  # List the methods of the bundled schema
  qrsctl methods

  # Show one method
  qrsctl info getAppIdExport

  # Export an app
  qrsctl call getAppIdExport --template id=0b5c6a1e-... --out-file app.qvf`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.host, "host", core.DefaultHost, "QRS host name")
	flags.Uint64Var(&opts.port, "port", core.DefaultPort, "QRS port")
	flags.StringVar(&opts.prefix, "prefix", "", "virtual proxy prefix")
	flags.StringVar(&opts.xrfkey, "xrfkey", core.DefaultXrfkey, "16 character xrfkey token")
	flags.BoolVar(&opts.insecure, "insecure", false, "use plain HTTP without client certificates")
	flags.BoolVar(&opts.skipVerify, "insecure-skip-verify", false, "do not verify the server certificate against the CA")
	flags.StringVar(&opts.cert, "cert", "client.pem", "client certificate (PEM)")
	flags.StringVar(&opts.key, "key", "client_key.pem", "client private key (PEM)")
	flags.StringVar(&opts.ca, "ca", "root.pem", "certificate authority bundle (PEM)")
	flags.StringVar(&opts.userDirectory, "user-directory", "internal", "user directory of the X-Qlik-User header")
	flags.StringVar(&opts.userId, "user-id", "sa_repository", "user id of the X-Qlik-User header")
	flags.StringVar(&opts.schema, "schema", "", "schema file or directory of versioned schema files (default: bundled schema)")
	flags.StringVar(&opts.serverVersion, "server-version", "", "server version used to pick a schema from a --schema directory")
	flags.StringVar(&opts.envFile, "env-file", ".env", "file with QRS_* environment variables")
	flags.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this rotated file instead of stderr")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVarP(&opts.output, "output", "o", "", "output format: json, table or raw")

	cmd.AddCommand(
		newVersionCmd(),
		newMethodsCmd(opts),
		newInfoCmd(opts),
		newCallCmd(opts),
	)
	return cmd, opts
}

// close flushes the logger once.
func (opts *options) close() {
	if opts.closeFn != nil {
		opts.closeFn()
		opts.closeFn = nil
	}
}

// setup loads the env file, fills unset flags from the environment and creates the logger.
func (opts *options) setup(cmd *cobra.Command) error {
	// A missing .env file is not an error.
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", opts.envFile, err)
	}
	if err := applyEnv(cmd.Root()); err != nil {
		return err
	}
	logger, closeFn, err := newLogger(opts.logFile, opts.debug, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts.logger, opts.closeFn = logger, closeFn
	return nil
}

// applyEnv sets every persistent flag that was not given on the command line
// from its environment variable, if present.
func applyEnv(root *cobra.Command) error {
	flags := root.PersistentFlags()
	for name, env := range envBindings {
		flag := flags.Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		value, ok := os.LookupEnv(env)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := flags.Set(name, value); err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
	}
	return nil
}

// config builds the client configuration. Certificates are read only for secure connections.
func (opts *options) config() (*client.QRSConfig, error) {
	config := &client.QRSConfig{
		Host:          opts.host,
		Port:          opts.port,
		Prefix:        opts.prefix,
		Xrfkey:        opts.xrfkey,
		UserDirectory: opts.userDirectory,
		UserId:        opts.userId,
	}
	config.SetSecure(!opts.insecure)
	config.SetSslVerify(!opts.skipVerify)
	if !opts.insecure {
		cert, key, ca, err := client.LoadCertificates(opts.cert, opts.key, opts.ca)
		if err != nil {
			return nil, err
		}
		config.Cert, config.Key, config.CA = cert, key, ca
	}
	return config, nil
}

// newClient creates the client and imports the configured schema.
func (opts *options) newClient() (*client.QRSRest, error) {
	config, err := opts.config()
	if err != nil {
		return nil, err
	}
	rest, err := client.NewQRSRest(config, client.WithLogger(opts.logger))
	if err != nil {
		return nil, err
	}
	if opts.schema != "" {
		if info, statErr := os.Stat(opts.schema); statErr == nil && info.IsDir() {
			return rest, rest.InitializeFromDir(opts.schema, opts.serverVersion)
		}
	}
	return rest, rest.Initialize(opts.schema)
}

// outputFormat returns the --output value or fallback when unset.
func (opts *options) outputFormat(fallback string) (string, error) {
	format := opts.output
	if format == "" {
		format = fallback
	}
	switch format {
	case "json", "table", "raw":
		return format, nil
	}
	return "", fmt.Errorf("unsupported output format %q: expected json, table or raw", format)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), client.ClientVersion()+"\n")
			return err
		},
	}
}
