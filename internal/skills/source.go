package skills

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed skills.json
var defaultData []byte

// FileSource reads skills from a JSON file on every Load call, so edits to
// the file show up without a restart.
type FileSource struct {
	path string
}

// NewFileSource creates a Source backed by the JSON file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and decodes the data set.
func (s *FileSource) Load(_ context.Context) ([]Skill, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read skills file: %w", err)
	}
	return decode(data)
}

// EmbeddedSource serves the data set compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource creates a Source over the bundled default data.
func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

// Load decodes the embedded data set.
func (s *EmbeddedSource) Load(_ context.Context) ([]Skill, error) {
	return decode(defaultData)
}

func decode(data []byte) ([]Skill, error) {
	var skills []Skill
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, fmt.Errorf("decode skills data: %w", err)
	}
	return skills, nil
}
