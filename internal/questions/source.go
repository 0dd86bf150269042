package questions

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/models"
)

// Source hands out the fixed question set a session runs over.
type Source interface {
	Load() ([]models.Question, error)
}

// FileSource reads the question bank from a JSON document and keeps only the
// records carrying the configured schema-version marker, the same filter the
// quiz screen applied to data/questions.json.
type FileSource struct {
	path          string
	schemaVersion string
}

func NewFileSource(path, schemaVersion string) *FileSource {
	return &FileSource{path: path, schemaVersion: schemaVersion}
}

func (s *FileSource) Load() ([]models.Question, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank %s: %w", s.path, err)
	}

	var file models.QuestionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank %s: %w", s.path, err)
	}

	var out []models.Question
	for _, q := range file.Questions {
		if q.SchemaVersion == s.schemaVersion {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("question bank %s has no %s questions", s.path, s.schemaVersion)
	}
	return out, nil
}
