package dialog

// Action is a suggested follow-up the user can pick. Command is the literal
// text the executor understands if the option is selected.
type Action struct {
	Label   string `json:"label"`
	Command string `json:"command"`
}

// Source is a citable reference attached to research output.
type Source struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Note   string `json:"note"`
}

// Evidence is a citable item (image or link) attached for user verification.
type Evidence struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	URL      string `json:"url,omitempty"`
	Path     string `json:"path,omitempty"`
	Data     string `json:"data,omitempty"`
	Source   string `json:"source,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
}

// FileMeta describes a generated export file. Path stays server-side; the
// client downloads by opaque id through the URL.
type FileMeta struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	Path string `json:"-"`
}

// FileRef is an uploaded file attached to an incoming command. Content is
// base64 encoded.
type FileRef struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Section is a named bullet group rendered in ShowText, e.g. workflow phases.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Meta carries the intent tag, verbosity level, source list and debug map for
// a turn.
type Meta struct {
	Intent    string         `json:"intent"`
	Verbosity string         `json:"verbosity"`
	Sources   []Source       `json:"sources"`
	Debug     map[string]any `json:"debug"`
}

// Contract is the fixed-shape structured answer returned for every turn,
// regardless of which handler produced it.
type Contract struct {
	SayText  string     `json:"sayText"`
	ShowText string     `json:"showText"`
	Evidence []Evidence `json:"evidence"`
	Files    []FileMeta `json:"files"`
	Actions  []Action   `json:"actions"`
	Meta     Meta       `json:"meta"`
}
