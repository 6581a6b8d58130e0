package crawler

import (
	"testing"

	"github.com/chromedp/cdproto/network"
)

func TestEventCollectorRecordsMethodAndCompression(t *testing.T) {
	c := newEventCollector("https://lp.example.com/")

	c.listen(&network.EventRequestWillBeSent{
		RequestID: "doc-1",
		Type:      network.ResourceTypeDocument,
		Request:   &network.Request{URL: "https://lp.example.com/", Method: "GET"},
	})
	c.listen(&network.EventRequestWillBeSent{
		RequestID: "xhr-1",
		Type:      network.ResourceTypeXHR,
		Request:   &network.Request{URL: "https://lp.example.com/api/lead", Method: "POST"},
	})
	c.listen(&network.EventResponseReceived{
		RequestID: "doc-1",
		Type:      network.ResourceTypeDocument,
		Response: &network.Response{
			URL:     "https://lp.example.com/",
			Status:  200,
			Headers: network.Headers{"content-encoding": "br", "content-length": "5120"},
		},
	})
	c.listen(&network.EventResponseReceived{
		RequestID: "xhr-1",
		Type:      network.ResourceTypeXHR,
		Response: &network.Response{
			URL:               "https://lp.example.com/api/lead",
			Status:            201,
			EncodedDataLength: 64,
		},
	})

	if len(c.requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(c.requests))
	}
	if c.requests[0].Method != "GET" {
		t.Errorf("document method: got %q, want GET", c.requests[0].Method)
	}
	if c.requests[1].Method != "POST" {
		t.Errorf("xhr method: got %q, want POST", c.requests[1].Method)
	}
	if c.requests[0].Size != 5120 {
		t.Errorf("document size: got %d", c.requests[0].Size)
	}
	if c.compression != "br" {
		t.Errorf("compression: got %q, want br", c.compression)
	}
	if c.statusCode != 200 {
		t.Errorf("status: got %d", c.statusCode)
	}
	if len(c.redirects) != 1 || c.redirects[0] != "https://lp.example.com/" {
		t.Errorf("redirect chain: %v", c.redirects)
	}
}
