package qrs_client

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/qrs-tools/go-qrs-client/core"
	"github.com/qrs-tools/go-qrs-client/schema"
)

// DefaultSchemaPath is the schema file Initialize looks for in the working directory.
const DefaultSchemaPath = "schemas/" + schema.DefaultFile

// QRSRest is a repository client whose methods are registered at runtime.
// The embedded Registry provides RegisterMethod, ShowMethodInfo, ShowAllMethodsInfo,
// GetMethod, SetMethod, DeleteMethod, ImportMethods, Exec and Call.
type QRSRest struct {
	*core.Registry
	logger *zap.Logger
}

// Option customizes a QRSRest created by NewQRSRest.
type Option func(*QRSRest)

// WithLogger sets the logger. Requests and responses are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(rest *QRSRest) {
		if logger != nil {
			rest.logger = logger
		}
	}
}

// NewQRSRest validates a copy of config, applying defaults for host, port,
// xrfkey, content type and User-Agent, and creates an empty client.
// Secure configs must carry client certificate, key and CA.
func NewQRSRest(config *QRSConfig, opts ...Option) (*QRSRest, error) {
	if config == nil {
		config = &QRSConfig{}
	}
	config = config.Clone()
	if err := config.Validate(core.DefaultValidators()...); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	rest := &QRSRest{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(rest)
	}
	withRequestLogging(config, rest.logger)
	rest.Registry = core.NewRegistry(config)
	rest.logger.Debug("client created",
		zap.String("address", config.Address()),
		zap.String("scheme", config.Scheme()),
		zap.String("prefix", config.Prefix),
		zap.String("version", ClientVersion()),
	)
	return rest, nil
}

// Initialize imports the methods of a schema file. An empty schemaPath means
// DefaultSchemaPath when that file exists and the bundled schema otherwise.
func (rest *QRSRest) Initialize(schemaPath string) error {
	if schemaPath == "" && fileExists(DefaultSchemaPath) {
		schemaPath = DefaultSchemaPath
	}
	if schemaPath == "" {
		descriptors, err := schema.Default()
		if err != nil {
			return err
		}
		return rest.importDescriptors("bundled schema "+schema.DefaultVersion, descriptors)
	}
	return rest.ImportFile(schemaPath)
}

// InitializeFromDir imports the schema file of dir that best matches serverVersion.
// See schema.Resolve.
func (rest *QRSRest) InitializeFromDir(dir, serverVersion string) error {
	path, err := schema.Resolve(dir, serverVersion)
	if err != nil {
		return err
	}
	return rest.ImportFile(path)
}

// ImportFile imports the methods of a JSON or YAML schema file.
func (rest *QRSRest) ImportFile(path string) error {
	descriptors, err := schema.Load(path)
	if err != nil {
		return err
	}
	return rest.importDescriptors(path, descriptors)
}

// ImportOpenAPI imports the GET, POST, PUT and DELETE operations of an OpenAPI v3 document.
func (rest *QRSRest) ImportOpenAPI(path string) error {
	descriptors, err := schema.LoadOpenAPI(path)
	if err != nil {
		return err
	}
	return rest.importDescriptors(path, descriptors)
}

func (rest *QRSRest) importDescriptors(source string, descriptors []core.Descriptor) error {
	before := rest.Len()
	if err := rest.ImportMethods(descriptors); err != nil {
		rest.logger.Error("import failed",
			zap.String("source", source),
			zap.Int("imported", rest.Len()-before),
			zap.Error(err),
		)
		return fmt.Errorf("import %s: %w", source, err)
	}
	rest.logger.Info("methods imported",
		zap.String("source", source),
		zap.Int("count", rest.Len()-before),
	)
	return nil
}

// GetOptions returns a copy of the connection configuration.
func (rest *QRSRest) GetOptions() *QRSConfig {
	return rest.Config()
}

// Logger returns the client logger.
func (rest *QRSRest) Logger() *zap.Logger {
	return rest.logger
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
