// hp-check probes the API health endpoint, the container healthcheck
// entrypoint. Exits non-zero when the service does not report healthy.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/badmik-games/badmik/internal/logging"
	"github.com/badmik-games/badmik/internal/shutdown"
)

type Config struct {
	Url     string        `envconfig:"BADMIK_HP_URL" default:"http://127.0.0.1:1234/health"`
	Timeout time.Duration `envconfig:"BADMIK_HP_TIMEOUT" default:"5s"`
}

type OkResponse struct {
	Status string `json:"status"`
}

func main() {
	flag.Parse()
	ctx, cancel := shutdown.New()
	logger := logging.FromContext(ctx)
	defer cancel()
	config := Config{}
	if err := envconfig.Process("", &config); err != nil {
		logger.Fatalf("processing the config: %v", err)
	}

	client := &http.Client{Timeout: config.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.Url, nil)
	if err != nil {
		logger.Fatalf("new request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		logger.Fatalf("client get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	bytes, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Fatalf("read all body bytes: %v", err)
	}

	var ok OkResponse
	if err := json.Unmarshal(bytes, &ok); err != nil {
		logger.Fatalf("body unmarshal: %v", err)
	}

	if ok.Status != "healthy" {
		logger.Fatalf("unexpected status: %q", ok.Status)
	}

	_, _ = fmt.Fprint(os.Stdout, ok.Status)
	_, _ = fmt.Fprint(os.Stdout, "\n")
}
