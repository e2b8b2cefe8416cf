package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetTrainingFeatures", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatAttribute(t *testing.T) {
	kv := formatAttribute("csv")
	if string(kv.Key) != "quiniela.response_format" || kv.Value.AsString() != "csv" {
		t.Fatalf("unexpected attribute: %v=%v", kv.Key, kv.Value.AsString())
	}
}

func TestStartSpan_NoParentIsNoop(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := startSpan(ctx, "httpapi.Handler.ListTeams", formatAttribute("json"))
	defer span.End()
	if gotCtx != ctx {
		t.Fatalf("context should be returned unchanged without a parent span")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a non-recording span")
	}
}
