package dialog

import (
	"context"

	"github.com/Batoli19/cavista/internal/model/dialog"
	"github.com/Batoli19/cavista/internal/model/project"
	"github.com/Batoli19/cavista/internal/service/gmail"
)

// AI defines how the orchestration layer reaches text and vision generation.
// Implementations handle provider fallback internally; GenerateText never
// fails from the caller's perspective, it degrades to canned local text.
type AI interface {
	GenerateText(ctx context.Context, prompt string) string
	GenerateVision(ctx context.Context, prompt string, files []dialog.FileRef) string
}

// ResearchResult is the collaborator output for a research turn.
type ResearchResult struct {
	Summary  string
	Sources  []dialog.Source
	Evidence []dialog.Evidence
	Raw      []ResearchRow
	Meta     ResearchMeta
}

// ResearchRow is one raw research hit before contract shaping.
type ResearchRow struct {
	Title     string
	Summary   string
	SourceURL string
	ImageURL  string
}

// ResearchMeta explains result quality so the core can decide whether to ask
// a clarifying question.
type ResearchMeta struct {
	Reason             string
	NeedsClarification bool
	NoReliableVisuals  bool
}

// Researcher fetches structured research for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string, limit int, wantEvidence bool) *ResearchResult
}

// Exporter converts a stored research object into a downloadable document.
// A kind with no registered writer fails with a typed missing-dependency
// error whose dependency name is surfaced verbatim to the user.
type Exporter interface {
	Export(kind string, research *dialog.Research) (dialog.FileMeta, error)
}

// Projects is the task/plan engine boundary.
type Projects interface {
	Active(ctx context.Context) (*project.Project, bool)
	Create(ctx context.Context, name, description string) (*project.Project, error)
	GeneratePlan(ctx context.Context, p *project.Project) ([]project.Task, error)
	SaveTasks(ctx context.Context, projectID string, tasks []project.Task) error
	Status(ctx context.Context, p *project.Project) (project.Status, error)
	Diagnose(ctx context.Context, projectID string) ([]string, error)
	MarkDone(ctx context.Context, taskID string) (string, error)
	Delay(ctx context.Context, taskID string, days int) (string, error)
}

// PlanResult is the outcome of a research-backed plan request.
type PlanResult struct {
	Project  *project.Project
	Topic    string
	Summary  string
	Tasks    []project.Task
	Phases   []dialog.Section
	Sources  []dialog.Source
	Evidence []dialog.Evidence
}

// Planner creates a project plan grounded in web research.
type Planner interface {
	PlanFromWebRequest(ctx context.Context, text string) (*PlanResult, error)
}

// OSActions launches fire-and-forget desktop actions. Result strings are
// shown to the user as-is.
type OSActions interface {
	OpenURL(url string) string
	OpenApp(name string) string
	MinimizeAll() string
}

// Gmail is the mail retrieval boundary. Unconfigured clients return
// ErrSetupRequired from the gmail package.
type Gmail interface {
	LastEmail(ctx context.Context) (gmail.Email, error)
	Summarize(ctx context.Context, email gmail.Email) (string, error)
	DraftReply(ctx context.Context, email gmail.Email, instructions string) (string, error)
}

// Lesson is the outcome of learning from an external video.
type Lesson struct {
	Title    string
	Summary  string
	Insights []string
}

// Learner extracts lessons from external learning sources.
type Learner interface {
	LearnFromYouTube(ctx context.Context, text string) (*Lesson, error)
}

// Speaker receives the speakable text of each finished turn.
type Speaker interface {
	Publish(sessionKey, text string)
}
