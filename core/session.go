package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// firstChunkSize bounds the first read from a response body.
const firstChunkSize = 32 * 1024

// newHTTPClient creates a client with its own transport. Keep-alives are
// disabled so every invocation opens and closes its own connection.
func newHTTPClient(config *QRSConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DisableKeepAlives = true
	if config.Secure() {
		tlsConfig, err := newTLSConfig(config)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
	}
	client := &http.Client{
		Transport: transport,
		// One request, one response: redirects are returned to the caller as is.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return client, nil
}

// newTLSConfig presents the client certificate and trusts the configured CA bundle.
func newTLSConfig(config *QRSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: !config.VerifyServer()}
	if len(config.Cert) > 0 || len(config.Key) > 0 {
		keyPair, err := tls.X509KeyPair(config.Cert, config.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{keyPair}
	}
	if len(config.CA) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(config.CA) {
			return nil, errors.New("failed to parse CA bundle: no PEM certificates found")
		}
		tlsConfig.RootCAs = pool
	}
	return tlsConfig, nil
}

// newRequest builds the HTTP request with the configured headers.
func newRequest(ctx context.Context, config *QRSConfig, url string, body any) (*http.Request, error) {
	requestData, err := EncodeBody(config.ContentType, body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, config.Method, url, requestData)
	if err != nil {
		return nil, err
	}
	for key, values := range config.Headers() {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return req, nil
}

// doRequest performs one exchange and classifies the response.
func doRequest(client *http.Client, req *http.Request) (Renderable, error) {
	defer client.CloseIdleConnections()
	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s: %w", req.Method, req.URL, err)
	}
	defer response.Body.Close()
	return readResponse(response.Body, req.URL.String())
}

// readResponse decodes the body as a Record when its first chunk, trimmed,
// starts with '{' and ends with '}'. The rest of the stream is then discarded.
// Otherwise all chunks are concatenated and returned as Raw.
func readResponse(body io.Reader, url string) (Renderable, error) {
	first, err := readFirstChunk(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if looksLikeObject(first) {
		var rec Record
		if err := json.Unmarshal(first, &rec); err != nil {
			return nil, &DecodeError{URL: url, Body: string(first), Err: err}
		}
		return rec, nil
	}
	buf := bytes.NewBuffer(first)
	if _, err := io.Copy(buf, body); err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return Raw(buf.Bytes()), nil
}

// readFirstChunk returns the bytes of the first non-empty read.
// An empty body yields an empty chunk.
func readFirstChunk(body io.Reader) ([]byte, error) {
	chunk := make([]byte, firstChunkSize)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			return chunk[:n], nil
		}
		if errors.Is(err, io.EOF) {
			return []byte{}, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func looksLikeObject(chunk []byte) bool {
	trimmed := bytes.TrimSpace(chunk)
	return len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}'
}
