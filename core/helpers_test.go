package core

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// generateCertificate creates a self-signed certificate valid for 127.0.0.1.
func generateCertificate(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "sa_repository"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM
}

// parseTestServerAddress extracts host and port from httptest.Server address
func parseTestServerAddress(addr string) (host string, port uint64) {
	lastColon := strings.LastIndex(addr, ":")
	if lastColon == -1 {
		return addr, DefaultPort
	}
	host = addr[:lastColon]
	port, _ = strconv.ParseUint(addr[lastColon+1:], 10, 64)
	return host, port
}

// newPlainServer starts an HTTP server and returns an insecure config pointing at it.
func newPlainServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *QRSConfig) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	host, port := parseTestServerAddress(server.Listener.Addr().String())
	config := &QRSConfig{
		Host:          host,
		Port:          port,
		Xrfkey:        DefaultXrfkey,
		ContentType:   ContentTypeJSON,
		UserDirectory: "internal",
		UserId:        "sa_repository",
	}
	config.SetSecure(false)
	return server, config
}

// newMutualTLSServer starts an HTTPS server that requires a client certificate
// and returns a secure config with matching certificate material.
func newMutualTLSServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *QRSConfig) {
	t.Helper()
	certPEM, keyPEM := generateCertificate(t)
	keyPair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("load key pair: %v", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(certPEM)

	server := httptest.NewUnstartedServer(handler)
	server.TLS = &tls.Config{
		Certificates: []tls.Certificate{keyPair},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    pool,
	}
	server.StartTLS()
	t.Cleanup(server.Close)

	host, port := parseTestServerAddress(server.Listener.Addr().String())
	config := &QRSConfig{
		Host:          host,
		Port:          port,
		Cert:          certPEM,
		Key:           keyPEM,
		CA:            certPEM,
		Xrfkey:        DefaultXrfkey,
		ContentType:   ContentTypeJSON,
		UserDirectory: "internal",
		UserId:        "sa_repository",
	}
	config.SetSecure(true)
	return server, config
}
