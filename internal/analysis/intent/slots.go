package intent

import (
	"regexp"
	"strings"

	"github.com/Batoli19/cavista/internal/model/dialog"
)

var (
	companyPattern  = regexp.MustCompile(`(?i)for\s+([a-zA-Z0-9\s&-]+?)\s+company`)
	fallbackCompany = regexp.MustCompile(`(?i)for\s+([a-zA-Z0-9\s&-]+)`)
	goalPattern     = regexp.MustCompile(`(?i)goal\s*(?:is|:)\s*([a-zA-Z0-9\s,-]+)`)
)

var knownDomains = []string{"health", "finance", "retail", "education", "logistics", "insurance"}

var knownWorkflowAreas = []string{
	"claims", "billing", "onboarding", "support", "audit", "compliance", "reporting", "sales",
}

func extractFirst(text string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// UpdateSlots accumulates recognized fields from the utterance into the
// session slots. Already-set slots are never overwritten.
func UpdateSlots(slots *dialog.Slots, text string) {
	lowered := strings.ToLower(text)

	if slots.CompanyName == "" {
		company := extractFirst(text, companyPattern)
		if company == "" {
			company = extractFirst(text, fallbackCompany)
		}
		if company != "" {
			slots.CompanyName = titleCase(company)
		}
	}

	if slots.Domain == "" {
		for _, dom := range knownDomains {
			if strings.Contains(lowered, dom) {
				slots.Domain = dom
				break
			}
		}
	}

	if slots.WorkflowArea == "" {
		for _, area := range knownWorkflowAreas {
			if strings.Contains(lowered, area) {
				slots.WorkflowArea = area
				break
			}
		}
	}

	if slots.Goal == "" {
		goal := extractFirst(text, goalPattern)
		if goal == "" {
			if _, after, ok := strings.Cut(lowered, " to "); ok {
				goal = strings.Trim(after, " .")
			}
		}
		if goal != "" {
			slots.Goal = goal
		}
	}

	if slots.ComplianceLevel == "" {
		switch {
		case strings.Contains(lowered, "hipaa"):
			slots.ComplianceLevel = "hipaa"
		case strings.Contains(lowered, "soc 2"), strings.Contains(lowered, "soc2"):
			slots.ComplianceLevel = "soc2"
		case strings.Contains(lowered, "gdpr"):
			slots.ComplianceLevel = "gdpr"
		case strings.Contains(lowered, "high compliance"):
			slots.ComplianceLevel = "high"
		}
	}
}

// ExtractResearchTopic strips leading research verbs from the utterance.
func ExtractResearchTopic(text string) string {
	t := strings.TrimSpace(text)
	lowered := strings.ToLower(t)
	// Longest prefixes first so "research about X" keeps only the topic.
	for _, prefix := range []string{"find research on ", "research about ", "research on ", "research "} {
		if strings.HasPrefix(lowered, prefix) {
			return strings.Trim(t[len(prefix):], " .")
		}
	}
	return t
}

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "yo": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

// IsGreeting reports whether the lowercased command is a bare greeting.
func IsGreeting(cmd string) bool { return greetings[cmd] }

var fillerWords = map[string]bool{
	"and": true, "so": true, "uh": true, "umm": true, "hmm": true,
	"wait": true, "then": true, "...": true,
}

// LooksCutoff detects utterances that end mid-thought so the assistant can
// prompt the user to continue instead of guessing.
func LooksCutoff(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	if greetings[t] {
		return false
	}
	if len(t) <= 3 {
		return true
	}
	if fillerWords[t] {
		return true
	}
	for _, suffix := range []string{"...", ",", " and", " so"} {
		if strings.HasSuffix(t, suffix) {
			return true
		}
	}
	return false
}

// NeedsWorkflowClarification reports whether the user wants a workflow but
// gave no target to build it for.
func NeedsWorkflowClarification(cmd string) bool {
	wantsWorkflow := false
	for _, k := range []string{"workflow", "automate", "automation", "work plan", "project plan"} {
		if strings.Contains(cmd, k) {
			wantsWorkflow = true
			break
		}
	}
	if !wantsWorkflow {
		return false
	}
	for _, k := range []string{"for ", "company", "team", "department", "health", "finance", "retail"} {
		if strings.Contains(cmd, k) {
			return false
		}
	}
	return true
}

var affirmatives = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "ok": true, "okay": true,
	"do it": true, "go ahead": true, "sure": true,
}

var negatives = map[string]bool{
	"no": true, "nope": true, "cancel": true, "stop": true, "not now": true,
}

// IsAffirmative reports whether the text is a bare affirmative reply.
func IsAffirmative(cmd string) bool { return affirmatives[strings.TrimSpace(strings.ToLower(cmd))] }

// IsNegative reports whether the text is a bare negative/cancel reply.
func IsNegative(cmd string) bool { return negatives[strings.TrimSpace(strings.ToLower(cmd))] }
