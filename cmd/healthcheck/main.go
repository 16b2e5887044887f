// Command healthcheck probes the basalt-site health endpoint and exits
// non-zero when the server is unreachable or not reporting "ok". It exists
// for scratch images that have no curl or wget.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr  = "127.0.0.1:8080"
	probeTimeout = 2 * time.Second
	healthPath   = "/api/health"
)

func main() {
	os.Exit(probe(context.Background(), os.Getenv("BASALT_LISTEN_ADDR")))
}

func probe(parent context.Context, listenAddr string) int {
	ctx, cancel := context.WithTimeout(parent, probeTimeout)
	defer cancel()

	url := fmt.Sprintf("http://%s%s", loopbackAddr(listenAddr), healthPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 1
	}

	client := &http.Client{Timeout: probeTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err != nil {
		return 1
	}
	if body.Status != "ok" {
		return 1
	}

	return 0
}

// loopbackAddr rewrites a bind-all listen address to loopback, since the
// probe runs inside the same container as the server.
func loopbackAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::":
		host = "::1"
	}

	return net.JoinHostPort(host, port)
}
