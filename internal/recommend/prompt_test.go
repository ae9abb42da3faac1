package recommend

import (
	"strings"
	"testing"

	"github.com/flowfind/flowfind/internal/catalog"
)

func sampleResults() []catalog.SearchResult {
	return []catalog.SearchResult{
		{
			WorkflowRecord: catalog.WorkflowRecord{
				Name:        "Email Automation",
				Description: "Sends an email when a form is submitted",
				Link:        "https://example.com/workflows/email",
			},
			Similarity: 0.9,
		},
		{
			WorkflowRecord: catalog.WorkflowRecord{
				Name:        "Slack Alerts",
				Description: "Posts alerts to a Slack channel",
				Link:        "https://example.com/workflows/slack",
			},
			Similarity: 0.7,
		},
	}
}

func TestBuildContext(t *testing.T) {
	got := buildContext(sampleResults())
	want := "Workflow: Email Automation\nDescription: Sends an email when a form is submitted\n\n" +
		"Workflow: Slack Alerts\nDescription: Posts alerts to a Slack channel"
	if got != want {
		t.Errorf("buildContext() = %q, want %q", got, want)
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := buildContext(nil); got != "" {
		t.Errorf("buildContext(nil) = %q, want empty", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("send an email", sampleResults())

	if !strings.Contains(prompt, `query: "send an email"`) {
		t.Errorf("prompt missing quoted query:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Workflow: Email Automation") {
		t.Errorf("prompt missing context block:\n%s", prompt)
	}
	if strings.Contains(prompt, "https://example.com") {
		t.Errorf("prompt must not contain links:\n%s", prompt)
	}
}
