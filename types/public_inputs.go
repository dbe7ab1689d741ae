package types

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadPublicInputs reads the flat JSON array of field elements written by
// `bb proof_as_fields`.
func ReadPublicInputs(path string) ([]string, error) {
	jsonFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open public inputs: %w", err)
	}
	defer jsonFile.Close()

	rawBytes, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read public inputs: %w", err)
	}
	return ReadPublicInputsFromRequest(rawBytes)
}

func ReadPublicInputsFromRequest(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse public inputs: %w", err)
	}
	return raw, nil
}

func WritePublicInputs(path string, fields []string) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal public inputs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write public inputs: %w", err)
	}
	return nil
}
