package dialog

// Slots holds the fields recognized from user utterances. Each slot is set at
// most once per session unless explicitly cleared.
type Slots struct {
	CompanyName     string `json:"companyName"`
	Domain          string `json:"domain"`
	WorkflowArea    string `json:"workflowArea"`
	Goal            string `json:"goal"`
	ComplianceLevel string `json:"complianceLevel"`
}

// Context remembers answers from earlier turns so the assistant does not
// re-ask questions the user already settled.
type Context struct {
	Topic   string `json:"topic"`
	Country string `json:"country"`
	Domain  string `json:"domain"`
}

// Research is the structured result of the most recent research turn,
// consumed by later export commands.
type Research struct {
	Topic      string      `json:"topic"`
	Summary    string      `json:"summary"`
	KeyPoints  []string    `json:"keyPoints"`
	DataPoints []DataPoint `json:"dataPoints"`
	Sources    []Source    `json:"sources"`
}

// DataPoint is a labeled numeric value suitable for charting in exports.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ArtifactRef records a previously generated export file.
type ArtifactRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// PendingAction is a recorded clarifying question/option set awaiting the
// user's next reply. A session holds at most one.
type PendingAction struct {
	Kind           string   `json:"kind"`
	Question       string   `json:"question"`
	Options        []Action `json:"options"`
	DefaultCommand string   `json:"defaultCommand"`
}

// Session captures conversational state scoped to one active project or the
// anonymous session key. Created lazily, lives for the process lifetime.
type Session struct {
	Key          string        `json:"key"`
	Slots        Slots         `json:"slots"`
	Context      Context       `json:"context"`
	LastResearch *Research     `json:"lastResearch,omitempty"`
	LastFiles    []FileMeta    `json:"lastFiles,omitempty"`
	LastIntent   string        `json:"lastIntent"`
	Artifacts    []ArtifactRef `json:"artifacts"`
	Pending      *PendingAction `json:"pending,omitempty"`
}

// AnonymousKey identifies the session used when no project is active.
const AnonymousKey = "__session__"
