package dialog

import (
	"strings"
	"testing"

	model "github.com/Batoli19/cavista/internal/model/dialog"
)

func TestBuildSentenceCapPerVerbosity(t *testing.T) {
	long := "One. Two. Three. Four. Five. Six. Seven. Eight. Nine. Ten."
	cases := []struct {
		verbosity string
		want      int
	}{
		{VerbosityQuick, 3},
		{VerbosityStandard, 5},
		{VerbosityDetailed, 8},
	}
	for _, tc := range cases {
		b := NewBuilder(tc.verbosity)
		contract := b.Build(Draft{Summary: long})
		topLine := strings.Split(contract.ShowText, "\n")[0]
		if got := strings.Count(topLine, "."); got != tc.want {
			t.Fatalf("verbosity %s: got %d sentences, want %d (%q)", tc.verbosity, got, tc.want, topLine)
		}
	}
}

func TestBuildBulletCap(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{
		Summary: "Summary.",
		Bullets: []string{"a", "b", "c", "d", "e"},
	})
	if got := strings.Count(contract.ShowText, "\n- "); got != 2 {
		t.Fatalf("quick bullet cap: got %d bullets, want 2\n%s", got, contract.ShowText)
	}
}

func TestBuildQuestionGetsQuestionMark(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{Summary: "Done.", Question: "What should I do next"})
	if !strings.HasSuffix(contract.ShowText, "What should I do next?") {
		t.Fatalf("question not appended with '?': %q", contract.ShowText)
	}
}

func TestBuildNonNilSlices(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{Summary: "Hello."})
	if contract.Evidence == nil || contract.Files == nil || contract.Actions == nil ||
		contract.Meta.Sources == nil || contract.Meta.Debug == nil {
		t.Fatal("contract must never carry nil collections")
	}
}

func TestBuildStripsBannedTone(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{Summary: "As an AI I think this works."})
	if strings.Contains(strings.ToLower(contract.ShowText), "as an ai") {
		t.Fatalf("banned phrase survived: %q", contract.ShowText)
	}
}

func TestSanitizeForTTS(t *testing.T) {
	in := "See [the study](https://example.com/a) and https://example.com/b for id deadbeef1234 [draft]. Second sentence. Third sentence."
	got := SanitizeForTTS(in, 0)
	for _, banned := range []string{"http", "deadbeef1234", "[", "]", "(", "https://example.com"} {
		if strings.Contains(got, banned) {
			t.Fatalf("sanitized text still contains %q: %q", banned, got)
		}
	}
	if !strings.Contains(got, "the study") {
		t.Fatalf("markdown link text lost: %q", got)
	}
	if n := strings.Count(got, "."); n > 2 {
		t.Fatalf("spoken text exceeds two sentences: %q", got)
	}
}

func TestSanitizeForTTSSourcesRemark(t *testing.T) {
	got := SanitizeForTTS("Research is ready.", 3)
	if !strings.Contains(got, "I attached 3 sources.") {
		t.Fatalf("missing sources remark: %q", got)
	}
	// Text already mentioning sources must not get a duplicate remark.
	got = SanitizeForTTS("I found 3 sources.", 3)
	if strings.Contains(got, "attached") {
		t.Fatalf("duplicate sources remark: %q", got)
	}
}

func TestSanitizeForTTSFallback(t *testing.T) {
	if got := SanitizeForTTS("https://example.com/only-a-url", 0); got != "Done." {
		t.Fatalf("empty sanitization should say Done., got %q", got)
	}
}

func TestPendingFromContract(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{
		Summary: "Pick one.",
		Actions: []model.Action{
			{Label: "Export to Word", Command: "export that to word"},
			{Label: "Show Status", Command: "status"},
		},
		Intent:   "research",
		Question: "Which option should I use",
	})

	pending := PendingFromContract(contract)
	if pending == nil {
		t.Fatal("expected pending action")
	}
	if len(pending.Options) != 2 {
		t.Fatalf("got %d options, want 2", len(pending.Options))
	}
	if pending.DefaultCommand != "export that to word" {
		t.Fatalf("default = %q, want first option command", pending.DefaultCommand)
	}
	if pending.Question != "Which option should I use?" {
		t.Fatalf("question = %q", pending.Question)
	}
	if pending.Kind != "research" {
		t.Fatalf("kind = %q, want research", pending.Kind)
	}
}

func TestPendingFromContractNoFollowUp(t *testing.T) {
	b := NewBuilder(VerbosityQuick)
	contract := b.Build(Draft{Summary: "All done here."})
	if pending := PendingFromContract(contract); pending != nil {
		t.Fatalf("expected nil pending, got %+v", pending)
	}
}
