package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

func main() {
	var (
		baseURL = flag.String("base-url", getenv("BASE_URL", "http://localhost:8090"), "event-relay base url")
		topic   = flag.String("topic", getenv("TOPIC", "deal-events"), "logical topic name")
		evtType = flag.String("type", getenv("EVENT_TYPE", "deal.requested"), "event type")
		source  = flag.String("source", getenv("EVENT_SOURCE", "publish-sim"), "producing service")
		data    = flag.String("data", getenv("EVENT_DATA", "{}"), "event data as a JSON object")
		async   = flag.Bool("async", false, "publish without waiting for the notification service")
	)
	flag.Parse()

	if strings.TrimSpace(*topic) == "" {
		fatal("topic is required")
	}

	payload, err := buildRequestJSON(*evtType, *source, *data, *async)
	if err != nil {
		fatal(err.Error())
	}

	url := strings.TrimRight(*baseURL, "/") + "/api/v1/topics/" + *topic + "/events"
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		fatal(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status=%d\n%s", resp.StatusCode, body)
	if resp.StatusCode >= 300 {
		os.Exit(1)
	}
}

func buildRequestJSON(eventType, source, rawData string, async bool) ([]byte, error) {
	data := map[string]any{}
	if strings.TrimSpace(rawData) != "" {
		if err := json.Unmarshal([]byte(rawData), &data); err != nil {
			return nil, fmt.Errorf("data must be a JSON object: %w", err)
		}
	}
	return json.Marshal(map[string]any{
		"eventType": eventType,
		"source":    source,
		"data":      data,
		"async":     async,
	})
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
