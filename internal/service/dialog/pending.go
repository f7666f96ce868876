package dialog

import (
	"regexp"
	"strconv"
	"strings"

	model "github.com/Batoli19/cavista/internal/model/dialog"
)

var optionIndexPattern = regexp.MustCompile(`\boption\s*(\d+)\b`)

// MatchPendingOption decides which pending option the reply selects and
// returns its literal command, or "" when nothing matches. Structural
// priority: an explicit "option N" index wins over a label match, which wins
// over a command-containment match.
func MatchPendingOption(cmd string, pending *model.PendingAction) string {
	if pending == nil || len(pending.Options) == 0 {
		return ""
	}
	text := strings.TrimSpace(strings.ToLower(cmd))
	if text == "" {
		return ""
	}

	if m := optionIndexPattern.FindStringSubmatch(text); m != nil {
		idx, err := strconv.Atoi(m[1])
		if err == nil && idx >= 1 && idx <= len(pending.Options) {
			if command := strings.TrimSpace(pending.Options[idx-1].Command); command != "" {
				return command
			}
		}
	}

	tokens := strings.Fields(text)
	for _, option := range pending.Options {
		label := strings.TrimSpace(strings.ToLower(option.Label))
		command := strings.TrimSpace(option.Command)
		if label != "" && command != "" {
			if text == label || strings.Contains(text, label) || strings.Contains(label, text) {
				return command
			}
			for _, token := range tokens {
				if strings.Contains(label, token) {
					return command
				}
			}
		}
		if command != "" && strings.Contains(strings.ToLower(command), text) {
			return command
		}
	}
	return ""
}
