package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/torosent/burstfire/internal/output"
)

func TestGenerateHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	doc := sampleDocument(t, "http_req_failed:rate < 0.1", "http_requests:count == 8")
	if err := output.GenerateHTMLReport(&buf, doc); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	html := buf.String()

	wants := []string{
		"burstfire Load Test Report",
		"http://example.com/health",
		doc.ID,
		"Status Codes",
		"404",
		"Request error",
		"#1",
		"#2",
		"Thresholds (1/2 Passed)",
		"✗ FAIL",
		"✓ PASS",
		"application/json",
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
}

func TestGenerateHTMLReport_NoThresholds(t *testing.T) {
	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, sampleDocument(t)); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	if strings.Contains(buf.String(), "Thresholds (") {
		t.Error("HTML report should not contain a thresholds section")
	}
}

func TestGenerateHTMLReport_EscapesHTMLInData(t *testing.T) {
	doc := sampleDocument(t)
	doc.Headers = map[string]string{"X-Note": "<script>alert('xss')</script>"}

	var buf bytes.Buffer
	if err := output.GenerateHTMLReport(&buf, doc); err != nil {
		t.Fatalf("GenerateHTMLReport() error = %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>alert") {
		t.Error("header value was not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
}
