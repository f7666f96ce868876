package dialog

import (
	"fmt"
	"regexp"
	"strings"

	model "github.com/Batoli19/cavista/internal/model/dialog"
)

// Verbosity levels accepted for response shaping.
const (
	VerbosityQuick    = "quick"
	VerbosityStandard = "standard"
	VerbosityDetailed = "detailed"
)

var allowedVerbosity = map[string]bool{
	VerbosityQuick:    true,
	VerbosityStandard: true,
	VerbosityDetailed: true,
}

var bannedTone = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bhuman\b`),
	regexp.MustCompile(`(?i)\bas an ai\b`),
	regexp.MustCompile(`(?i)\bdoctor diagnosis\b`),
	regexp.MustCompile(`(?i)\bexcellent task\b`),
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(https?://[^)]+\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+`)
	hexTokenPattern     = regexp.MustCompile(`(?i)\b[a-f0-9]{8,}\b`)
	bracketPattern      = regexp.MustCompile(`[{}\[\]]`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// Draft is the raw handler output before contract shaping.
type Draft struct {
	Summary   string
	Bullets   []string
	Sections  []model.Section
	Sources   []model.Source
	Evidence  []model.Evidence
	Files     []model.FileMeta
	Actions   []model.Action
	Intent    string
	Verbosity string
	SayText   string
	Question  string
	Debug     map[string]any
}

// Builder converts handler drafts into the uniform response contract,
// applying verbosity shaping and speech-safe text sanitization.
type Builder struct {
	defaultVerbosity string
}

// NewBuilder creates a builder. An unrecognized default verbosity falls back
// to quick.
func NewBuilder(defaultVerbosity string) *Builder {
	v := strings.ToLower(strings.TrimSpace(defaultVerbosity))
	if !allowedVerbosity[v] {
		v = VerbosityQuick
	}
	return &Builder{defaultVerbosity: v}
}

func (b *Builder) verbosity(requested string) string {
	if allowedVerbosity[requested] {
		return requested
	}
	return b.defaultVerbosity
}

func sentenceLimit(level string) int {
	switch level {
	case VerbosityDetailed:
		return 8
	case VerbosityStandard:
		return 5
	default:
		return 3
	}
}

// splitSentences breaks text on terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var parts []string
	var current strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			}
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func limitSentences(text string, maxSentences int) string {
	clean := strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if clean == "" {
		return ""
	}
	parts := splitSentences(clean)
	if len(parts) > maxSentences {
		parts = parts[:maxSentences]
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func cleanTone(text string) string {
	clean := strings.TrimSpace(text)
	for _, pattern := range bannedTone {
		clean = pattern.ReplaceAllString(clean, "")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(clean, " "))
}

// SanitizeForTTS strips markdown links, URLs, hex-like tokens and bracket
// characters, hard-caps the result to two sentences, and appends an evidence
// count remark when sources exist and the text does not already mention them.
func SanitizeForTTS(text string, sourceCount int) string {
	clean := strings.TrimSpace(text)
	clean = markdownLinkPattern.ReplaceAllString(clean, "$1")
	clean = urlPattern.ReplaceAllString(clean, "")
	clean = hexTokenPattern.ReplaceAllString(clean, "")
	clean = bracketPattern.ReplaceAllString(clean, "")
	clean = strings.Trim(whitespacePattern.ReplaceAllString(clean, " "), " ,.-")
	clean = limitSentences(clean, 2)
	if sourceCount > 0 && !strings.Contains(strings.ToLower(clean), "source") {
		clean = fmt.Sprintf("%s. I attached %d sources.", clean, sourceCount)
	}
	if clean == "" {
		return "Done."
	}
	return clean
}

func renderSources(sources []model.Source) []string {
	lines := make([]string, 0, len(sources))
	for _, source := range sources {
		title := source.Title
		if title == "" {
			title = "Source"
		}
		note := source.Note
		if note == "" {
			note = "reference"
		}
		lines = append(lines, fmt.Sprintf("- %s - %s (used for: %s)", title, source.Domain, note))
	}
	return lines
}

// Build shapes a draft into the response contract.
func (b *Builder) Build(d Draft) model.Contract {
	v := b.verbosity(d.Verbosity)
	limit := sentenceLimit(v)

	topLine := cleanTone(limitSentences(d.Summary, limit))
	var body []string
	if topLine != "" {
		body = append(body, topLine)
	}

	var bulletLines []string
	for _, bullet := range d.Bullets {
		if clean := cleanTone(bullet); clean != "" {
			bulletLines = append(bulletLines, clean)
		}
	}
	bulletCap := 2
	if v == VerbosityStandard {
		bulletCap = 4
	} else if v == VerbosityDetailed {
		bulletCap = 5
	}
	if len(bulletLines) > bulletCap {
		bulletLines = bulletLines[:bulletCap]
	}
	for _, bullet := range bulletLines {
		body = append(body, "- "+bullet)
	}

	itemCap := 2
	if v == VerbosityStandard {
		itemCap = 3
	} else if v == VerbosityDetailed {
		itemCap = 5
	}
	for _, section := range d.Sections {
		title := strings.TrimSpace(section.Title)
		var items []string
		for _, item := range section.Items {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if title == "" || len(items) == 0 {
			continue
		}
		if len(items) > itemCap {
			items = items[:itemCap]
		}
		body = append(body, "", "**"+title+"**")
		for _, item := range items {
			body = append(body, "- "+item)
		}
	}

	if lines := renderSources(d.Sources); len(lines) > 0 {
		sourceCap := 3
		if v != VerbosityQuick {
			sourceCap = 5
		}
		if len(lines) > sourceCap {
			lines = lines[:sourceCap]
		}
		body = append(body, "", "**What I found**")
		body = append(body, lines...)
		body = append(body, "- Source links are attached below.")
	}

	if q := strings.TrimSpace(d.Question); q != "" {
		if !strings.HasSuffix(q, "?") {
			q += "?"
		}
		body = append(body, "", q)
	}

	showText := strings.TrimSpace(strings.Join(body, "\n"))

	spokenSource := d.SayText
	if spokenSource == "" {
		spokenSource = d.Summary
	}
	if spokenSource == "" {
		spokenSource = showText
	}
	spoken := SanitizeForTTS(spokenSource, len(d.Sources))

	evidence := append([]model.Evidence(nil), d.Evidence...)
	for _, src := range d.Sources {
		if src.URL == "" {
			continue
		}
		evidence = append(evidence, model.Evidence{
			Type:    "link",
			Title:   firstNonEmpty(src.Title, "Source"),
			Caption: src.Note,
			URL:     src.URL,
			Source:  src.Domain,
		})
	}

	debug := d.Debug
	if debug == nil {
		debug = map[string]any{}
	}
	sources := d.Sources
	if sources == nil {
		sources = []model.Source{}
	}
	intentTag := d.Intent
	if intentTag == "" {
		intentTag = "general"
	}

	files := d.Files
	if files == nil {
		files = []model.FileMeta{}
	}
	actions := d.Actions
	if actions == nil {
		actions = []model.Action{}
	}
	if evidence == nil {
		evidence = []model.Evidence{}
	}

	return model.Contract{
		SayText:  spoken,
		ShowText: showText,
		Evidence: evidence,
		Files:    files,
		Actions:  actions,
		Meta: model.Meta{
			Intent:    intentTag,
			Verbosity: v,
			Sources:   sources,
			Debug:     debug,
		},
	}
}

// PendingFromContract derives the next pending action from a finished turn:
// offered actions become options (the first one is the bare-affirmative
// default), and a trailing question line is kept for re-prompting. Returns
// nil when the turn ends with neither.
func PendingFromContract(c model.Contract) *model.PendingAction {
	var options []model.Action
	for _, action := range c.Actions {
		if strings.TrimSpace(action.Command) == "" {
			continue
		}
		options = append(options, model.Action{
			Label:   strings.TrimSpace(action.Label),
			Command: strings.TrimSpace(action.Command),
		})
	}

	questionLine := ""
	showText := strings.TrimSpace(c.ShowText)
	if strings.HasSuffix(showText, "?") {
		lines := strings.Split(showText, "\n")
		questionLine = strings.TrimSpace(lines[len(lines)-1])
	}

	if len(options) == 0 && questionLine == "" {
		return nil
	}

	kind := c.Meta.Intent
	if kind == "" {
		kind = "follow_up"
	}
	defaultCommand := ""
	if len(options) > 0 {
		defaultCommand = options[0].Command
	}
	return &model.PendingAction{
		Kind:           kind,
		Question:       questionLine,
		Options:        options,
		DefaultCommand: defaultCommand,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
