package main

import (
	"encoding/json"
	"testing"
)

func TestBuildRequestJSON(t *testing.T) {
	raw, err := buildRequestJSON("deal.requested", "service-trade", `{"dealId":"d-1"}`, true)
	if err != nil {
		t.Fatalf("buildRequestJSON failed: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["eventType"] != "deal.requested" || got["source"] != "service-trade" || got["async"] != true {
		t.Fatalf("unexpected request: %v", got)
	}
	if data, ok := got["data"].(map[string]any); !ok || data["dealId"] != "d-1" {
		t.Fatalf("unexpected data: %v", got["data"])
	}

	if _, err := buildRequestJSON("deal.requested", "service-trade", `[1,2]`, false); err == nil {
		t.Fatal("expected error for non-object data")
	}
}
