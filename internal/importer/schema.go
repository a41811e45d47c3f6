package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// CatalogSchema is the top-level JSON structure for catalog import:
// the operation, station, and worker definitions a plan draws on.
type CatalogSchema struct {
	Operations []OperationImport `json:"operations"`
	Stations   []StationImport   `json:"stations,omitempty"`
	Workers    []WorkerImport    `json:"workers,omitempty"`
}

// OperationImport defines an operation in the import file.
type OperationImport struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	OutputCode string   `json:"output_code,omitempty"`
}

// StationImport defines a station in the import file.
type StationImport struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	OperationIDs []string `json:"operation_ids,omitempty"`
	SubSkills    []string `json:"sub_skills,omitempty"`
}

// WorkerImport defines a worker in the import file.
type WorkerImport struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills,omitempty"`
}

// LoadCatalogFile reads and parses a catalog import file.
func LoadCatalogFile(path string) (*CatalogSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var schema CatalogSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	return &schema, nil
}
