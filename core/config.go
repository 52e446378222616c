package core

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"strings"
)

// QRSConfig represents the connection configuration for a Qlik Sense Repository Service.
// A registry keeps one canonical QRSConfig and hands every registered method its own clone.
type QRSConfig struct {
	Host          string // The hostname or IP address of the QRS server.
	Port          uint64 // The port to connect to on the QRS server.
	Prefix        string // Optional virtual proxy prefix. Normalized to "/prefix" by WithPrefix.
	IsSecure      *bool  // Use HTTPS with client certificates. Nil means secure.
	SslVerify     *bool  // Whether to verify the server certificate against CA. Nil means verify.
	Cert          []byte // PEM encoded client certificate.
	Key           []byte // PEM encoded client private key.
	CA            []byte // PEM encoded certificate authority bundle.
	Xrfkey        string // Cross-site request forgery token, sent as header and first query parameter.
	ContentType   string // Content-Type header sent with every request.
	UserDirectory string // User directory of the identity header.
	UserId        string // User id of the identity header.
	UserAgent     string // Optional custom User-Agent header.

	// Method and Path are set per registered method.
	Method string
	Path   string

	// BeforeRequestFn is an optional hook executed before a request is sent.
	// It allows for request inspection, mutation, or logging.
	BeforeRequestFn BeforeRequestFunc

	// AfterRequestFn is an optional hook executed after the response has been classified.
	// It can be used for post-processing, transformation, or logging of the response.
	AfterRequestFn AfterRequestFunc
}

// QRSConfigFunc defines a function that can modify or validate a QRSConfig.
type QRSConfigFunc func(*QRSConfig) error

// Validate applies the given QRSConfigFunc validators to the config and
// returns the first error encountered.
func (config *QRSConfig) Validate(validators ...QRSConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the config. Byte slices are copied so that
// later mutation of the source never reaches the clone.
func (config *QRSConfig) Clone() *QRSConfig {
	if config == nil {
		return nil
	}
	clone := *config
	clone.Cert = cloneBytes(config.Cert)
	clone.Key = cloneBytes(config.Key)
	clone.CA = cloneBytes(config.CA)
	if config.IsSecure != nil {
		secure := *config.IsSecure
		clone.IsSecure = &secure
	}
	if config.SslVerify != nil {
		verify := *config.SslVerify
		clone.SslVerify = &verify
	}
	return &clone
}

// Secure reports whether requests are sent over HTTPS.
func (config *QRSConfig) Secure() bool {
	return config.IsSecure == nil || *config.IsSecure
}

// SetSecure sets the transport security flag.
func (config *QRSConfig) SetSecure(secure bool) {
	config.IsSecure = &secure
}

// VerifyServer reports whether the server certificate is verified against CA.
func (config *QRSConfig) VerifyServer() bool {
	return config.SslVerify == nil || *config.SslVerify
}

// SetSslVerify sets the server certificate verification flag.
func (config *QRSConfig) SetSslVerify(verify bool) {
	config.SslVerify = &verify
}

// Scheme returns "https" for secure configs and "http" otherwise.
func (config *QRSConfig) Scheme() string {
	if config.Secure() {
		return "https"
	}
	return "http"
}

// Address returns host:port.
func (config *QRSConfig) Address() string {
	return net.JoinHostPort(config.Host, strconv.FormatUint(config.Port, 10))
}

// UserHeader builds the value of the X-Qlik-User identity header.
func (config *QRSConfig) UserHeader() string {
	return fmt.Sprintf("UserDirectory=%s; UserId=%s", config.UserDirectory, config.UserId)
}

// Headers returns the fixed headers sent with every request.
func (config *QRSConfig) Headers() http.Header {
	headers := make(http.Header)
	headers.Set(HeaderXrfkey, config.Xrfkey)
	headers.Set(HeaderContentType, config.ContentType)
	headers.Set(HeaderQlikUser, config.UserHeader())
	if config.UserAgent != "" {
		headers.Set(HeaderUserAgent, config.UserAgent)
	}
	return headers
}

// FormatPrefix normalizes a virtual proxy prefix: a leading '/' is added
// and one trailing '/' is removed. Empty input stays empty.
func FormatPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return prefix
}

// WithHost sets the default host if none is provided.
func WithHost(config *QRSConfig) error {
	if config.Host == "" {
		config.Host = DefaultHost
	}
	return nil
}

// WithPort returns a QRSConfigFunc that sets a default port if none is provided.
func WithPort(defaultPort uint64) QRSConfigFunc {
	return func(config *QRSConfig) error {
		if config.Port == 0 {
			config.Port = defaultPort
		}
		return nil
	}
}

// WithPrefix normalizes the virtual proxy prefix.
func WithPrefix(config *QRSConfig) error {
	config.Prefix = FormatPrefix(config.Prefix)
	return nil
}

// WithXrfkey returns a QRSConfigFunc that sets a default xrfkey if none is provided.
// QRS requires the token to be exactly 16 characters.
func WithXrfkey(defaultKey string) QRSConfigFunc {
	return func(config *QRSConfig) error {
		if config.Xrfkey == "" {
			config.Xrfkey = defaultKey
		}
		if len(config.Xrfkey) != 16 {
			return fmt.Errorf("xrfkey must be 16 characters long, got %d", len(config.Xrfkey))
		}
		return nil
	}
}

// WithContentType returns a QRSConfigFunc that sets a default content type if none is provided.
func WithContentType(defaultType string) QRSConfigFunc {
	return func(config *QRSConfig) error {
		if config.ContentType == "" {
			config.ContentType = defaultType
		}
		return nil
	}
}

// WithSecure makes the transport secure unless explicitly disabled.
func WithSecure(config *QRSConfig) error {
	if config.IsSecure == nil {
		config.SetSecure(true)
	}
	return nil
}

// WithSslVerify enables server certificate verification unless explicitly disabled.
func WithSslVerify(config *QRSConfig) error {
	if config.SslVerify == nil {
		config.SetSslVerify(true)
	}
	return nil
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *QRSConfig) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("go-qrs-client-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithTLSMaterial validates that certificate, key and CA are present for secure configs.
func WithTLSMaterial(config *QRSConfig) error {
	if !config.Secure() {
		return nil
	}
	var missing []string
	if len(config.Cert) == 0 {
		missing = append(missing, "cert")
	}
	if len(config.Key) == 0 {
		missing = append(missing, "key")
	}
	if len(config.CA) == 0 {
		missing = append(missing, "ca")
	}
	if len(missing) > 0 {
		return errors.New("secure connection requires " + strings.Join(missing, ", "))
	}
	return nil
}

// DefaultValidators returns the validator chain applied by NewRegistry callers
// that want the stock defaults.
func DefaultValidators() []QRSConfigFunc {
	return []QRSConfigFunc{
		WithHost,
		WithPort(DefaultPort),
		WithPrefix,
		WithXrfkey(DefaultXrfkey),
		WithContentType(ContentTypeJSON),
		WithSecure,
		WithSslVerify,
		WithUserAgent,
		WithTLSMaterial,
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
