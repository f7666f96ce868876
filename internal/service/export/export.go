// Package export turns stored research into downloadable office documents.
// Writers register per file kind; asking for an unregistered kind yields a
// MissingDependencyError naming what has to be installed, which the dialogue
// layer surfaces verbatim.
package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

// MissingDependencyError reports that no writer backs the requested kind.
type MissingDependencyError struct {
	Kind       string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("export kind %q unavailable: missing %s", e.Kind, e.Dependency)
}

// Writer renders one research object to a file on disk.
type Writer interface {
	Write(path string, research *dialog.Research) error
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Service owns the writer registry and the download file registry.
type Service struct {
	dir string

	mu      sync.RWMutex
	writers map[string]Writer
	files   map[string]dialog.FileMeta
}

// NewService creates the export service with all built-in writers registered.
// Generated files land under dir, created on demand.
func NewService(dir string) *Service {
	if dir == "" {
		dir = "generated"
	}
	s := &Service{
		dir:     dir,
		writers: make(map[string]Writer),
		files:   make(map[string]dialog.FileMeta),
	}
	s.Register("docx", DocxWriter{})
	s.Register("pptx", PptxWriter{})
	s.Register("xlsx", XlsxWriter{})
	return s
}

// Kinds lists the registered export kinds in sorted order.
func (s *Service) Kinds() []string {
	s.mu.RLock()
	kinds := make([]string, 0, len(s.writers))
	for kind := range s.writers {
		kinds = append(kinds, kind)
	}
	s.mu.RUnlock()
	sort.Strings(kinds)
	return kinds
}

// Register installs a writer for the given kind, replacing any previous one.
func (s *Service) Register(kind string, w Writer) {
	s.mu.Lock()
	s.writers[kind] = w
	s.mu.Unlock()
}

// Export renders research as the requested kind and registers the result for
// download.
func (s *Service) Export(kind string, research *dialog.Research) (dialog.FileMeta, error) {
	s.mu.RLock()
	writer, ok := s.writers[kind]
	s.mu.RUnlock()
	if !ok {
		return dialog.FileMeta{}, &MissingDependencyError{Kind: kind, Dependency: dependencyName(kind)}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return dialog.FileMeta{}, fmt.Errorf("create export dir: %w", err)
	}

	id := uuid.NewString()
	name := fileName(research.Topic, kind)
	path := filepath.Join(s.dir, id+"_"+name)

	if err := writer.Write(path, research); err != nil {
		return dialog.FileMeta{}, fmt.Errorf("write %s export: %w", kind, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return dialog.FileMeta{}, fmt.Errorf("stat %s export: %w", kind, err)
	}

	meta := dialog.FileMeta{
		ID:   id,
		Type: kind,
		Name: name,
		URL:  "/download/" + id,
		Size: info.Size(),
		Path: path,
	}

	s.mu.Lock()
	s.files[id] = meta
	s.mu.Unlock()

	log.Printf("[export] created %s (%d bytes) id=%s", name, meta.Size, id)
	return meta, nil
}

// Lookup resolves a download ID registered by a previous export.
func (s *Service) Lookup(fileID string) (dialog.FileMeta, bool) {
	s.mu.RLock()
	meta, ok := s.files[fileID]
	s.mu.RUnlock()
	return meta, ok
}

func fileName(topic, kind string) string {
	base := strings.TrimSpace(topic)
	if base == "" {
		base = "report"
	}
	base = unsafeFileChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), "")
	if len(base) > 60 {
		base = base[:60]
	}
	return base + "_report." + kind
}

func dependencyName(kind string) string {
	switch kind {
	case "docx":
		return "the Word export module"
	case "pptx":
		return "the PowerPoint export module"
	case "xlsx":
		return "the Excel export module"
	default:
		return "the " + kind + " export module"
	}
}
