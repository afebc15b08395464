package config

import "crypto/tls"

// LoadTLS builds a *tls.Config from a cert/key pair, as referenced by
// every `--https-socket`/`--http2-socket` TLS spec (spec.md §6).
// NextProtos carries "h2" only when cfg.HTTPSH2 requests ALPN
// negotiation of HTTP/2 over the connection.
func LoadTLS(certFile, keyFile string, httpsH2 bool) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, ErrorTLSLoad.Error(err)
	}

	tc := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if httpsH2 {
		tc.NextProtos = []string{"h2", "http/1.1"}
	}
	return tc, nil
}
