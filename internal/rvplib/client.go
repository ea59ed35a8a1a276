package rvplib

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/xlate/jsonapi-rvp/internal/rvplib/config"
	"github.com/xlate/jsonapi-rvp/pkg/jsonapi"
)

func GetClient(cacert string, timeout int) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cacert != "" {
		data, err := os.ReadFile(cacert)
		if err != nil {
			return nil, err
		}
		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(data) {
			return nil, fmt.Errorf(
				"could not load certificates from file '%s'",
				cacert,
			)
		}

		transport.TLSClientConfig = &tls.Config{RootCAs: certPool}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(timeout) * time.Second,
	}, nil
}

/*
GetConnection
Build a jsonapi.Connection for a configured server. A non-empty 'cacert'
overrides the certificate bundle of the server.
*/
func GetConnection(server config.Server, cacert string) (*jsonapi.Connection, error) {
	if cacert == "" {
		cacert = server.CACert
	}
	client, err := GetClient(cacert, server.Timeout)
	if err != nil {
		return nil, err
	}
	return jsonapi.NewConnection(jsonapi.Config{
		BaseURL: server.BaseURL,
		Headers: server.Headers,
	}, client), nil
}
