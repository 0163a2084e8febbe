package pdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docchain-backend/models"
)

// Renderer turns a validated, fully computed document into a file. Layout is
// a collaborator concern; callers only see the produced path.
type Renderer interface {
	Render(doc models.Document, profile models.Freelancer) (string, error)
}

// FileRenderer is the development sink: it writes the render payload as JSON
// next to where a real PDF engine would put its output, so document flows
// can be exercised end to end without a layout engine.
type FileRenderer struct {
	Dir string
}

func NewFileRenderer(dir string) *FileRenderer {
	if dir == "" {
		dir = "out"
	}
	return &FileRenderer{Dir: dir}
}

func (r *FileRenderer) Render(doc models.Document, profile models.Freelancer) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("render dir: %w", err)
	}
	payload := map[string]any{
		"document":     doc,
		"issued_by":    profile,
		"generated_at": time.Now().UTC(),
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(r.Dir, doc.DocumentNumber+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
