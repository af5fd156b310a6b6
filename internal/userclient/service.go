package userclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"endless-quiz/internal/cli"
)

const (
	defaultServer      = "http://127.0.0.1:8080"
	defaultHTTPTimeout = 5 * time.Second
)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
}

// Run plays one session against a running quiz service from the terminal.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	if err := client.Health(ctx); err != nil {
		return describeClientError(err, serverURL)
	}

	fmt.Fprintf(out, "quiz-user-service\nserver=%s\n\n", serverURL)
	return cli.Play(ctx, in, out, NewRemoteSession(client))
}
