package intent

import (
	"testing"

	"github.com/Batoli19/cavista/internal/model/dialog"
)

func TestUpdateSlotsExtraction(t *testing.T) {
	var slots dialog.Slots
	UpdateSlots(&slots, "build a claims workflow for Acme Health company with hipaa compliance")

	if slots.CompanyName != "Acme Health" {
		t.Fatalf("company = %q, want Acme Health", slots.CompanyName)
	}
	if slots.Domain != "health" {
		t.Fatalf("domain = %q, want health", slots.Domain)
	}
	if slots.WorkflowArea != "claims" {
		t.Fatalf("area = %q, want claims", slots.WorkflowArea)
	}
	if slots.ComplianceLevel != "hipaa" {
		t.Fatalf("compliance = %q, want hipaa", slots.ComplianceLevel)
	}
}

func TestUpdateSlotsNeverOverwrites(t *testing.T) {
	slots := dialog.Slots{CompanyName: "First Co", Domain: "finance"}
	UpdateSlots(&slots, "make a workflow for Second Co company in the health domain")

	if slots.CompanyName != "First Co" {
		t.Fatalf("company overwritten to %q", slots.CompanyName)
	}
	if slots.Domain != "finance" {
		t.Fatalf("domain overwritten to %q", slots.Domain)
	}
}

func TestExtractResearchTopic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"research quantum computing", "quantum computing"},
		{"research on diabetes rates", "diabetes rates"},
		{"research about supply chains.", "supply chains"},
	}
	for _, tc := range cases {
		if got := ExtractResearchTopic(tc.in); got != tc.want {
			t.Fatalf("ExtractResearchTopic(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLooksCutoff(t *testing.T) {
	cutoff := []string{"and", "so", "um", "make me a...", "do this and", "ok so"}
	for _, in := range cutoff {
		if !LooksCutoff(in) {
			t.Fatalf("LooksCutoff(%q) = false, want true", in)
		}
	}
	complete := []string{"hello", "research quantum computing", "status"}
	for _, in := range complete {
		if LooksCutoff(in) {
			t.Fatalf("LooksCutoff(%q) = true, want false", in)
		}
	}
}

func TestAffirmativeAndNegative(t *testing.T) {
	for _, in := range []string{"yes", "Yeah", "ok", "do it", "go ahead"} {
		if !IsAffirmative(in) {
			t.Fatalf("IsAffirmative(%q) = false", in)
		}
	}
	for _, in := range []string{"no", "nope", "cancel", "not now"} {
		if !IsNegative(in) {
			t.Fatalf("IsNegative(%q) = false", in)
		}
	}
	if IsAffirmative("yes please research this") {
		t.Fatal("multi-word command must not count as bare affirmative")
	}
}
