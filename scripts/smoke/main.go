// Command smoke probes a running api-gateway instance and reports whether the
// core endpoints respond. Intended for deploy pipelines and local checks.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	var (
		base    string
		token   string
		ownerID string
		kind    string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", "", "Bearer token for authenticated probes")
	flag.StringVar(&ownerID, "owner", "", "Owner id to query slots for (optional)")
	flag.StringVar(&kind, "kind", "reviewers", "Owner kind path segment")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	failed := false

	for _, path := range []string{"/health", "/ready"} {
		if err := probe(client, base+path, ""); err != nil {
			log.Printf("FAIL %s: %v", path, err)
			failed = true
			continue
		}
		log.Printf("ok   %s", path)
	}

	if ownerID != "" {
		from := time.Now().UTC()
		to := from.AddDate(0, 0, 7)
		query := url.Values{}
		query.Set("from", from.Format(time.RFC3339))
		query.Set("to", to.Format(time.RFC3339))
		path := fmt.Sprintf("/owners/%s/%s/slots?%s", kind, ownerID, query.Encode())
		if err := probe(client, base+path, token); err != nil {
			log.Printf("FAIL %s: %v", path, err)
			failed = true
		} else {
			log.Printf("ok   %s", path)
		}
	}

	if failed {
		os.Exit(1)
	}
}

func probe(client *http.Client, target, token string) error {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body))
	}
	if len(body) > 0 && !json.Valid(body) {
		return fmt.Errorf("response is not valid JSON")
	}
	return nil
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
