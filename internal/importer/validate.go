package importer

import "fmt"

// ValidateCatalogSchema checks the catalog schema before any write.
// Returns a slice of all validation errors found.
func ValidateCatalogSchema(schema *CatalogSchema) []error {
	var errs []error

	if len(schema.Operations) == 0 {
		errs = append(errs, fmt.Errorf("catalog contains no operations"))
	}

	opIDs := make(map[string]bool)
	for i, op := range schema.Operations {
		if op.ID == "" {
			errs = append(errs, fmt.Errorf("operations[%d]: id is required", i))
			continue
		}
		if opIDs[op.ID] {
			errs = append(errs, fmt.Errorf("operations[%d]: duplicate id %q", i, op.ID))
		}
		opIDs[op.ID] = true
		if op.Name == "" {
			errs = append(errs, fmt.Errorf("operations[%d] (%s): name is required", i, op.ID))
		}
	}

	stationIDs := make(map[string]bool)
	for i, s := range schema.Stations {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("stations[%d]: id is required", i))
			continue
		}
		if stationIDs[s.ID] {
			errs = append(errs, fmt.Errorf("stations[%d]: duplicate id %q", i, s.ID))
		}
		stationIDs[s.ID] = true
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("stations[%d] (%s): name is required", i, s.ID))
		}
		for _, opID := range s.OperationIDs {
			if !opIDs[opID] {
				errs = append(errs, fmt.Errorf("stations[%d] (%s): unknown operation %q", i, s.ID, opID))
			}
		}
	}

	workerIDs := make(map[string]bool)
	for i, w := range schema.Workers {
		if w.ID == "" {
			errs = append(errs, fmt.Errorf("workers[%d]: id is required", i))
			continue
		}
		if workerIDs[w.ID] {
			errs = append(errs, fmt.Errorf("workers[%d]: duplicate id %q", i, w.ID))
		}
		workerIDs[w.ID] = true
		if w.Name == "" {
			errs = append(errs, fmt.Errorf("workers[%d] (%s): name is required", i, w.ID))
		}
	}

	return errs
}
