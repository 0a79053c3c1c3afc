package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReadModel decodes a model document. ext selects the format; anything other
// than ".json" is read as YAML, which also accepts JSON input. An empty
// document yields an empty model.
func ReadModel(data []byte, ext string) (Model, error) {
	var model Model
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &model); err != nil {
			return nil, fmt.Errorf("params: unmarshal json model: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("params: unmarshal yaml model: %w", err)
	}
	if model == nil {
		model = Model{}
	}
	return model, nil
}

// ReadModelFile reads a model from a .json, .yaml or .yml file.
func ReadModelFile(path string) (Model, error) {
	if path == "" {
		return nil, errors.New("params: model path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("params: read model: %w", err)
	}
	model, err := ReadModel(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return model, nil
}
