package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/naka-gawa/commit-streaks/internal/domain"
	"gopkg.in/yaml.v3"
)

// ReadCommitsFile loads commits, stats included, from a JSON or YAML file.
// The format is chosen by extension; anything other than .yaml/.yml is
// read as JSON.
func ReadCommitsFile(path string) ([]domain.Commit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read commits file: %w", err)
	}
	var commits []domain.Commit
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &commits)
	default:
		err = json.Unmarshal(data, &commits)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode commits file %s: %w", path, err)
	}
	return commits, nil
}
