package intent

import (
	"regexp"
	"strings"
)

// Tag is the classified purpose of an utterance.
type Tag string

const (
	TagResearchPlan    Tag = "research_plan"
	TagResearch        Tag = "research"
	TagProjectAnalysis Tag = "project_analysis"
	TagOpenGmail       Tag = "open_gmail"
	TagGmailSummary    Tag = "gmail_summary"
	TagOpenYouTube     Tag = "open_youtube"
	TagOpenNewTab      Tag = "open_new_tab"
	TagExportRef       Tag = "export_ref"
	TagDefault         Tag = "default"
)

// Classifier turns lowercased utterance text into a dispatch decision.
// Implementations must be deterministic.
type Classifier interface {
	Classify(cmd string, hasActiveProject bool) Tag
}

var researchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bresearch\b`),
	regexp.MustCompile(`\bfind\b`),
	regexp.MustCompile(`\blook\s+up\b`),
	regexp.MustCompile(`\bweb\s+research\b`),
	regexp.MustCompile(`\bsearch\s+for\b`),
}

var projectAnalysisMarkers = []string{
	"project risk", "risk analysis", "deadline risk", "status report", "project health",
}

// IsResearchRequest reports whether the text carries a research marker.
func IsResearchRequest(cmd string) bool {
	for _, p := range researchPatterns {
		if p.MatchString(cmd) {
			return true
		}
	}
	return false
}

func isProjectAnalysisRequest(cmd string) bool {
	for _, m := range projectAnalysisMarkers {
		if strings.Contains(cmd, m) {
			return true
		}
	}
	return false
}

// ExportTarget resolves an export-target keyword to a file kind, or "" when
// the text names none.
func ExportTarget(cmd string) string {
	c := strings.ToLower(cmd)
	switch {
	case strings.Contains(c, "word") || strings.Contains(c, "docx"):
		return "docx"
	case strings.Contains(c, "powerpoint") || strings.Contains(c, "ppt") || strings.Contains(c, "slides"):
		return "pptx"
	case strings.Contains(c, "excel") || strings.Contains(c, "xlsx") || strings.Contains(c, "spreadsheet"):
		return "xlsx"
	}
	return ""
}

// RuleClassifier evaluates rules in strict priority order, first match wins.
// The ordering is part of the contract: "create a work plan ... with web
// research" must classify as research_plan, never as a bare research query.
type RuleClassifier struct{}

// NewRuleClassifier returns the deterministic rule-based classifier.
func NewRuleClassifier() *RuleClassifier { return &RuleClassifier{} }

// Classify maps lowercased text to exactly one intent tag.
func (c *RuleClassifier) Classify(cmd string, hasActiveProject bool) Tag {
	if IsResearchRequest(cmd) && (strings.Contains(cmd, "plan") || strings.Contains(cmd, "workflow")) {
		return TagResearchPlan
	}
	if IsResearchRequest(cmd) {
		return TagResearch
	}
	if isProjectAnalysisRequest(cmd) && hasActiveProject {
		return TagProjectAnalysis
	}
	if strings.Contains(cmd, "open gmail") {
		return TagOpenGmail
	}
	if strings.Contains(cmd, "summarise the last email") ||
		strings.Contains(cmd, "summarize the last email") ||
		strings.Contains(cmd, "read last email") {
		return TagGmailSummary
	}
	if strings.Contains(cmd, "open youtube") {
		return TagOpenYouTube
	}
	if strings.Contains(cmd, "open a new tab") || strings.TrimSpace(cmd) == "new tab" {
		return TagOpenNewTab
	}
	if ExportTarget(cmd) != "" {
		return TagExportRef
	}
	return TagDefault
}
