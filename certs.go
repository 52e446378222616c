package qrs_client

import (
	"fmt"
	"os"
)

// LoadCertificates reads the PEM encoded client certificate, client key and
// certificate authority bundle exported from the Qlik Sense server.
func LoadCertificates(certPath, keyPath, caPath string) (cert, key, ca []byte, err error) {
	if cert, err = readPEM("client certificate", certPath); err != nil {
		return nil, nil, nil, err
	}
	if key, err = readPEM("client key", keyPath); err != nil {
		return nil, nil, nil, err
	}
	if ca, err = readPEM("CA", caPath); err != nil {
		return nil, nil, nil, err
	}
	return cert, key, ca, nil
}

func readPEM(kind, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s path is empty", kind)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	return data, nil
}
