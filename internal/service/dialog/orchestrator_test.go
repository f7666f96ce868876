package dialog

import (
	"context"
	"strings"
	"testing"

	model "github.com/Batoli19/cavista/internal/model/dialog"
	"github.com/Batoli19/cavista/internal/service/export"
	"github.com/Batoli19/cavista/internal/service/gmail"
)

type fakeAI struct {
	text      string
	mustPanic bool
}

func (f *fakeAI) GenerateText(ctx context.Context, prompt string) string {
	if f.mustPanic {
		panic("model exploded")
	}
	if f.text != "" {
		return f.text
	}
	return "Here is a short answer."
}

func (f *fakeAI) GenerateVision(ctx context.Context, prompt string, files []model.FileRef) string {
	return "The image shows a chart."
}

type fakeResearcher struct {
	result *ResearchResult
	calls  []string
}

func (f *fakeResearcher) Research(ctx context.Context, topic string, limit int, wantEvidence bool) *ResearchResult {
	f.calls = append(f.calls, topic)
	return f.result
}

type fakeExporter struct {
	meta  model.FileMeta
	err   error
	kinds []string
}

func (f *fakeExporter) Export(kind string, research *model.Research) (model.FileMeta, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return model.FileMeta{}, f.err
	}
	return f.meta, nil
}

type fakeGmail struct {
	email gmail.Email
	err   error
}

func (f *fakeGmail) LastEmail(ctx context.Context) (gmail.Email, error) {
	return f.email, f.err
}

func (f *fakeGmail) Summarize(ctx context.Context, email gmail.Email) (string, error) {
	return "Budget approval is needed by Friday.", nil
}

func (f *fakeGmail) DraftReply(ctx context.Context, email gmail.Email, instructions string) (string, error) {
	return "Thanks, I will review and reply by Friday.", nil
}

type fakeSpeaker struct {
	lines []string
}

func (f *fakeSpeaker) Publish(sessionKey, text string) {
	f.lines = append(f.lines, text)
}

func goodResearch() *ResearchResult {
	return &ResearchResult{
		Summary: "Quantum computing uses qubits. It is an active research field.",
		Sources: []model.Source{
			{Title: "Quantum computing", URL: "https://en.wikipedia.org/wiki/Quantum_computing", Domain: "wikipedia.org", Note: "primary overview"},
			{Title: "Qubit", URL: "https://en.wikipedia.org/wiki/Qubit", Domain: "wikipedia.org", Note: "supporting context"},
			{Title: "Quantum supremacy", URL: "https://en.wikipedia.org/wiki/Quantum_supremacy", Domain: "wikipedia.org", Note: "supporting context"},
		},
		Raw: []ResearchRow{
			{Title: "Quantum computing", Summary: "Computing with qubits."},
			{Title: "Qubit", Summary: "The basic unit."},
		},
		Meta: ResearchMeta{Reason: "ok"},
	}
}

func newTestOrchestrator(research *fakeResearcher, exporter *fakeExporter, ai *fakeAI, speaker *fakeSpeaker) *Orchestrator {
	deps := Deps{
		Builder: NewBuilder(VerbosityStandard),
	}
	if ai != nil {
		deps.AI = ai
	}
	if research != nil {
		deps.Research = research
	}
	if exporter != nil {
		deps.Exports = exporter
	}
	if speaker != nil {
		deps.Speaker = speaker
	}
	return New(deps)
}

func TestGreetingTurn(t *testing.T) {
	o := newTestOrchestrator(nil, nil, &fakeAI{}, nil)
	resp := o.HandleCommand(context.Background(), "hello", nil)

	if resp.Meta.Intent != "greeting" {
		t.Fatalf("intent = %q, want greeting", resp.Meta.Intent)
	}
	if len(resp.Actions) == 0 {
		t.Fatal("greeting should offer quick actions")
	}
}

func TestAffirmativeWithoutPending(t *testing.T) {
	o := newTestOrchestrator(nil, nil, &fakeAI{}, nil)
	resp := o.HandleCommand(context.Background(), "yes", nil)

	if resp.Meta.Intent != "pending_none" {
		t.Fatalf("intent = %q, want pending_none", resp.Meta.Intent)
	}
}

func TestResearchSuccessStoresStateAndOffersExports(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	speaker := &fakeSpeaker{}
	o := newTestOrchestrator(research, nil, &fakeAI{}, speaker)

	resp := o.HandleCommand(context.Background(), "research quantum computing", nil)

	if resp.Meta.Intent != "research" {
		t.Fatalf("intent = %q, want research", resp.Meta.Intent)
	}
	if len(resp.Meta.Sources) != 3 {
		t.Fatalf("got %d sources, want 3", len(resp.Meta.Sources))
	}
	if len(resp.Actions) != 3 {
		t.Fatalf("expected 3 export actions, got %d", len(resp.Actions))
	}
	if len(speaker.lines) != 1 || !strings.Contains(speaker.lines[0], "Research is ready") {
		t.Fatalf("speaker lines = %v", speaker.lines)
	}
	if !strings.Contains(speaker.lines[0], "I attached 3 sources.") {
		t.Fatalf("spoken line missing sources remark: %q", speaker.lines[0])
	}
	if len(research.calls) != 1 || research.calls[0] != "quantum computing" {
		t.Fatalf("research calls = %v", research.calls)
	}
}

func TestResearchInsufficientSourcesAsksClarification(t *testing.T) {
	research := &fakeResearcher{result: &ResearchResult{
		Sources: []model.Source{{Title: "Only one", Domain: "wikipedia.org"}},
		Meta:    ResearchMeta{Reason: "insufficient_sources", NeedsClarification: true},
	}}
	o := newTestOrchestrator(research, nil, &fakeAI{}, nil)

	resp := o.HandleCommand(context.Background(), "research something obscure", nil)

	if !strings.HasSuffix(strings.TrimSpace(resp.ShowText), "?") {
		t.Fatalf("clarification must end with a question:\n%s", resp.ShowText)
	}
	if len(resp.Actions) != 3 {
		t.Fatalf("expected retry/continue/specify actions, got %d", len(resp.Actions))
	}
	if resp.Meta.Debug["researchReason"] != "insufficient_sources" {
		t.Fatalf("debug reason = %v", resp.Meta.Debug["researchReason"])
	}
}

func TestPendingOptionResolution(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	exporter := &fakeExporter{meta: model.FileMeta{
		ID: "f1", Type: "docx", Name: "quantum_report.docx", URL: "/download/f1",
	}}
	o := newTestOrchestrator(research, exporter, &fakeAI{}, nil)

	// First turn sets export options as the pending action.
	o.HandleCommand(context.Background(), "research quantum computing", nil)

	// Labels resolve against pending options.
	resp := o.HandleCommand(context.Background(), "export to word", nil)
	if resp.Meta.Intent != "export_docx" {
		t.Fatalf("intent = %q, want export_docx", resp.Meta.Intent)
	}
	if len(exporter.kinds) != 1 || exporter.kinds[0] != "docx" {
		t.Fatalf("exporter kinds = %v", exporter.kinds)
	}
	if len(resp.Files) != 1 || resp.Files[0].URL != "/download/f1" {
		t.Fatalf("files = %+v", resp.Files)
	}
}

func TestPendingOptionByIndex(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	exporter := &fakeExporter{meta: model.FileMeta{ID: "f2", Type: "pptx", Name: "deck.pptx"}}
	o := newTestOrchestrator(research, exporter, &fakeAI{}, nil)

	o.HandleCommand(context.Background(), "research quantum computing", nil)

	resp := o.HandleCommand(context.Background(), "option 2", nil)
	if resp.Meta.Intent != "export_pptx" {
		t.Fatalf("intent = %q, want export_pptx", resp.Meta.Intent)
	}
}

func TestPendingNegativeCancels(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	o := newTestOrchestrator(research, nil, &fakeAI{}, nil)

	o.HandleCommand(context.Background(), "research quantum computing", nil)
	resp := o.HandleCommand(context.Background(), "no", nil)

	if resp.Meta.Intent != "pending_cancel" {
		t.Fatalf("intent = %q, want pending_cancel", resp.Meta.Intent)
	}
}

func TestPendingAffirmativeRunsDefault(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	exporter := &fakeExporter{meta: model.FileMeta{ID: "f3", Type: "docx", Name: "r.docx"}}
	o := newTestOrchestrator(research, exporter, &fakeAI{}, nil)

	o.HandleCommand(context.Background(), "research quantum computing", nil)
	resp := o.HandleCommand(context.Background(), "yes", nil)

	// First export action is the default command.
	if resp.Meta.Intent != "export_docx" {
		t.Fatalf("intent = %q, want export_docx", resp.Meta.Intent)
	}
	if resp.Meta.Debug["resolvedFrom"] != "export that to word" {
		t.Fatalf("resolvedFrom = %v", resp.Meta.Debug["resolvedFrom"])
	}
}

func TestPendingAffirmativeWithoutDefaultAnswersNone(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	o := newTestOrchestrator(research, nil, &fakeAI{}, nil)

	// Canceling leaves a question-only pending with no options and no
	// default command; a bare "yes" then has nothing to run.
	o.HandleCommand(context.Background(), "research quantum computing", nil)
	o.HandleCommand(context.Background(), "no", nil)
	resp := o.HandleCommand(context.Background(), "yes", nil)

	if resp.Meta.Intent != "pending_none" {
		t.Fatalf("intent = %q, want pending_none", resp.Meta.Intent)
	}
}

func TestGmailSummaryReadsLatestEmail(t *testing.T) {
	gm := &fakeGmail{email: gmail.Email{From: "alice@example.com", Subject: "Budget approval"}}
	o := New(Deps{Builder: NewBuilder(VerbosityStandard), Gmail: gm})

	resp := o.HandleCommand(context.Background(), "summarize the last email", nil)

	if resp.Meta.Intent != "gmail_summary" {
		t.Fatalf("intent = %q, want gmail_summary", resp.Meta.Intent)
	}
	for _, want := range []string{"alice@example.com", "Budget approval", "needed by Friday"} {
		if !strings.Contains(resp.ShowText, want) {
			t.Fatalf("summary missing %q:\n%s", want, resp.ShowText)
		}
	}
}

func TestGmailSummarySetupRequired(t *testing.T) {
	gm := &fakeGmail{err: gmail.ErrSetupRequired}
	o := New(Deps{Builder: NewBuilder(VerbosityStandard), Gmail: gm})

	resp := o.HandleCommand(context.Background(), "summarize the last email", nil)

	if !strings.Contains(resp.ShowText, "Run Gmail setup once, then retry.") {
		t.Fatalf("missing setup guidance:\n%s", resp.ShowText)
	}
	if len(resp.Actions) != 2 || resp.Actions[0].Label != "Setup Gmail" {
		t.Fatalf("unexpected setup actions: %+v", resp.Actions)
	}
}

func TestExportWithoutResearchAsksFirst(t *testing.T) {
	exporter := &fakeExporter{}
	o := newTestOrchestrator(nil, exporter, &fakeAI{}, nil)

	resp := o.HandleCommand(context.Background(), "export that to word", nil)

	if !strings.Contains(resp.ShowText, "What should I research first?") {
		t.Fatalf("missing export guard line:\n%s", resp.ShowText)
	}
	if len(exporter.kinds) != 0 {
		t.Fatalf("exporter must not run, got kinds %v", exporter.kinds)
	}
}

func TestExportMissingDependencySurfacesName(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	exporter := &fakeExporter{err: &export.MissingDependencyError{
		Kind: "pptx", Dependency: "the PowerPoint export module",
	}}
	o := newTestOrchestrator(research, exporter, &fakeAI{}, nil)

	o.HandleCommand(context.Background(), "research quantum computing", nil)
	resp := o.HandleCommand(context.Background(), "make a powerpoint from this", nil)

	if !strings.Contains(resp.ShowText, "the PowerPoint export module") {
		t.Fatalf("dependency name not surfaced:\n%s", resp.ShowText)
	}
}

func TestPanicYieldsErrorContractAndKeepsSession(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	ai := &fakeAI{}
	o := newTestOrchestrator(research, nil, ai, nil)

	o.HandleCommand(context.Background(), "research quantum computing", nil)

	ai.mustPanic = true
	resp := o.HandleCommand(context.Background(), "tell me something interesting", nil)
	if resp.Meta.Intent != "error" {
		t.Fatalf("intent = %q, want error", resp.Meta.Intent)
	}

	// The stored research from the successful turn must survive the panic.
	ai.mustPanic = false
	exporterErr := o.HandleCommand(context.Background(), "export that to word", nil)
	if strings.Contains(exporterErr.ShowText, "What should I research first?") {
		t.Fatal("session state lost after panic")
	}
}

func TestCutoffPrompt(t *testing.T) {
	o := newTestOrchestrator(nil, nil, &fakeAI{}, nil)
	resp := o.HandleCommand(context.Background(), "make me a...", nil)
	if resp.Meta.Intent != "cutoff" {
		t.Fatalf("intent = %q, want cutoff", resp.Meta.Intent)
	}
}

func TestChatFallback(t *testing.T) {
	o := newTestOrchestrator(nil, nil, &fakeAI{text: "Tea is a brewed drink."}, nil)
	resp := o.HandleCommand(context.Background(), "tell me about tea ceremonies", nil)

	if resp.Meta.Intent != "chat" {
		t.Fatalf("intent = %q, want chat", resp.Meta.Intent)
	}
	if !strings.Contains(resp.ShowText, "Tea is a brewed drink.") {
		t.Fatalf("AI text missing:\n%s", resp.ShowText)
	}
}

func TestSttCorrectionRecordedInDebug(t *testing.T) {
	research := &fakeResearcher{result: goodResearch()}
	o := newTestOrchestrator(research, nil, &fakeAI{}, nil)

	resp := o.HandleCommand(context.Background(), "research health spending in our contry in Botswana", nil)
	corrections, ok := resp.Meta.Debug["sttCorrections"].([]string)
	if !ok || len(corrections) == 0 {
		t.Fatalf("sttCorrections missing: %v", resp.Meta.Debug)
	}
	if corrections[0] != "contry->country" {
		t.Fatalf("corrections = %v", corrections)
	}
}
