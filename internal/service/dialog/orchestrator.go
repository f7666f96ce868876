package dialog

import (
	"context"
	"log"
	"strings"

	"github.com/Batoli19/cavista/internal/analysis/intent"
	model "github.com/Batoli19/cavista/internal/model/dialog"
)

// Deps wires the orchestrator to its collaborators. Sessions, Classifier and
// Builder are required; the rest may be nil, in which case the matching
// handlers degrade to actionable "not configured" replies.
type Deps struct {
	Sessions   Store
	Classifier intent.Classifier
	Builder    *Builder
	AI         AI
	Research   Researcher
	Exports    Exporter
	Projects   Projects
	Planner    Planner
	OSActions  OSActions
	Gmail      Gmail
	Learner    Learner
	Speaker    Speaker
}

// Orchestrator owns the per-turn conversation protocol: normalization,
// pending-action resolution, intent dispatch and contract finalization.
type Orchestrator struct {
	deps Deps
}

// New creates the orchestrator.
func New(deps Deps) *Orchestrator {
	if deps.Classifier == nil {
		deps.Classifier = intent.NewRuleClassifier()
	}
	if deps.Builder == nil {
		deps.Builder = NewBuilder(VerbosityQuick)
	}
	if deps.Sessions == nil {
		deps.Sessions = NewMemoryStore()
	}
	return &Orchestrator{deps: deps}
}

// HandleCommand processes one utterance and returns the response contract.
// It never fails: internal panics are converted into an apology contract and
// the session keeps the state of its last successful turn.
func (o *Orchestrator) HandleCommand(ctx context.Context, text string, files []model.FileRef) (contract model.Contract) {
	session := o.deps.Sessions.Get(o.sessionKey(ctx))

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[dialog] recovered from turn failure: %v", r)
			contract = o.deps.Builder.Build(Draft{
				Summary: "I hit an internal error while processing that request. Please retry.",
				Intent:  "error",
				SayText: "I hit an internal error while processing that request.",
			})
		}
	}()

	normalized, corrections := intent.Normalize(text)
	cmd := strings.TrimSpace(strings.ToLower(normalized))

	baseDebug := map[string]any{}
	if len(corrections) > 0 {
		baseDebug["sttCorrections"] = corrections
	}

	if session.Pending != nil {
		if intent.IsNegative(cmd) {
			session.Pending = nil
			resp := o.deps.Builder.Build(Draft{
				Summary:  "Okay, canceled.",
				Intent:   "pending_cancel",
				SayText:  "Okay, canceled.",
				Question: "What should I do next",
			})
			return o.finalize(session, resp, baseDebug)
		}

		if selected := MatchPendingOption(cmd, session.Pending); selected != "" {
			session.Pending = nil
			resp := o.handleCore(ctx, session, selected, files)
			baseDebug["resolvedFrom"] = selected
			return o.finalize(session, resp, baseDebug)
		}

		if intent.IsAffirmative(cmd) {
			if defaultCommand := strings.TrimSpace(session.Pending.DefaultCommand); defaultCommand != "" {
				session.Pending = nil
				resp := o.handleCore(ctx, session, defaultCommand, files)
				baseDebug["resolvedFrom"] = defaultCommand
				return o.finalize(session, resp, baseDebug)
			}
		}
	}

	// A bare affirmative with nothing actionable lands here, including a
	// pending action that carries no default command.
	if intent.IsAffirmative(cmd) {
		resp := o.deps.Builder.Build(Draft{
			Summary:  "I do not have a pending action yet.",
			Intent:   "pending_none",
			SayText:  "I do not have a pending action yet.",
			Question: "What should I do",
		})
		return o.finalize(session, resp, baseDebug)
	}

	resp := o.handleCore(ctx, session, normalized, files)
	if len(corrections) > 0 {
		baseDebug["normalizedText"] = normalized
	}
	return o.finalize(session, resp, baseDebug)
}

// finalize attaches debug metadata, derives the next pending action, persists
// the session and hands the spoken line to the speaker.
func (o *Orchestrator) finalize(session *model.Session, resp model.Contract, debug map[string]any) model.Contract {
	if resp.Meta.Debug == nil {
		resp.Meta.Debug = map[string]any{}
	}
	for k, v := range debug {
		resp.Meta.Debug[k] = v
	}

	session.Pending = PendingFromContract(resp)
	o.deps.Sessions.Put(session)

	if o.deps.Speaker != nil && resp.SayText != "" {
		o.deps.Speaker.Publish(session.Key, resp.SayText)
	}
	return resp
}

// sessionKey scopes conversation state to the active project when one exists.
func (o *Orchestrator) sessionKey(ctx context.Context) string {
	if o.deps.Projects != nil {
		if p, ok := o.deps.Projects.Active(ctx); ok && p.ID != "" {
			return p.ID
		}
	}
	return model.AnonymousKey
}

func (o *Orchestrator) hasActiveProject(ctx context.Context) bool {
	if o.deps.Projects == nil {
		return false
	}
	_, ok := o.deps.Projects.Active(ctx)
	return ok
}
