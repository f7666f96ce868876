package intent

import "testing"

func TestClassifyPriorityOrder(t *testing.T) {
	c := NewRuleClassifier()
	cases := []struct {
		cmd        string
		hasProject bool
		want       Tag
	}{
		// research_plan outranks research even though both markers match
		{"create a work plan for a health company with web research", false, TagResearchPlan},
		{"research diabetes treatment options", false, TagResearch},
		{"find statistics on retail growth", false, TagResearch},
		{"look up hipaa requirements", false, TagResearch},
		{"run a project risk analysis", true, TagProjectAnalysis},
		// without an active project, analysis text falls through
		{"run a project risk analysis", false, TagDefault},
		{"open gmail", false, TagOpenGmail},
		{"summarize the last email", false, TagGmailSummary},
		{"open youtube", false, TagOpenYouTube},
		{"open a new tab", false, TagOpenNewTab},
		{"make a powerpoint from this", false, TagExportRef},
		{"hello there", false, TagDefault},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.cmd, tc.hasProject); got != tc.want {
			t.Fatalf("Classify(%q, %v) = %s, want %s", tc.cmd, tc.hasProject, got, tc.want)
		}
	}
}

func TestClassifyResearchOutranksShortcuts(t *testing.T) {
	c := NewRuleClassifier()
	// carries both a research marker and an export keyword: research wins
	if got := c.Classify("research word processors", false); got != TagResearch {
		t.Fatalf("got %s, want %s", got, TagResearch)
	}
}

func TestExportTarget(t *testing.T) {
	cases := []struct {
		cmd  string
		want string
	}{
		{"export that to word", "docx"},
		{"make a powerpoint from this", "pptx"},
		{"put the slides together", "pptx"},
		{"export to excel", "xlsx"},
		{"save as spreadsheet", "xlsx"},
		{"just chat with me", ""},
	}
	for _, tc := range cases {
		if got := ExportTarget(tc.cmd); got != tc.want {
			t.Fatalf("ExportTarget(%q) = %q, want %q", tc.cmd, got, tc.want)
		}
	}
}
