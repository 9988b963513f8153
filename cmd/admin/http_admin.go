package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// metricsCmd fetches the editor's health and metrics endpoints.
func metricsCmd(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	baseURL := fs.String("url", "http://127.0.0.1:8080", "editor base url")
	_ = fs.Parse(args)

	base := strings.TrimRight(strings.TrimSpace(*baseURL), "/")
	cl := &http.Client{Timeout: 5 * time.Second}
	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := cl.Get(base + path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "request:", err)
			os.Exit(1)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, resp.Status)
			os.Exit(1)
		}
		if path == "/healthz" {
			fmt.Printf("health: %s\n", strings.TrimSpace(string(b)))
			continue
		}
		fmt.Print(string(b))
	}
}
