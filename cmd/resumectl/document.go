package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/resume/model"
)

// readDocument loads a resume JSON file. An empty path yields the default
// document.
func readDocument(path string) (model.Document, error) {
	if path == "" {
		return model.Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := model.DecodeDocument(raw)
	if err != nil {
		return model.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeDocument(path string, doc model.Document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(append(payload, '\n'))
		return err
	}
	return writeFile(path, payload)
}
