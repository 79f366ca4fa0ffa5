package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadArgs turns --data or --data-file into format arguments.
// A top-level array spreads into positional arguments.
func loadArgs(jsonStr, filePath string) ([]any, error) {
	var value any

	switch {
	case filePath != "" && jsonStr != "":
		return nil, errors.New(ErrMsgDataSourceConflict)
	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if isYAMLFile(filePath) {
			err = yaml.Unmarshal(data, &value)
		} else {
			err = json.Unmarshal(data, &value)
		}
		if err != nil {
			return nil, err
		}
	case jsonStr != "":
		if err := json.Unmarshal([]byte(jsonStr), &value); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}

	if list, ok := value.([]any); ok {
		return list, nil
	}
	return []any{value}, nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == DataFileExtYAML || ext == DataFileExtYML
}
