package importer

import "github.com/mbeckers/fabplan/internal/domain"

// Convert maps a validated catalog schema onto domain entities.
func Convert(schema *CatalogSchema) ([]*domain.Operation, []*domain.Station, []*domain.Worker) {
	ops := make([]*domain.Operation, 0, len(schema.Operations))
	for _, op := range schema.Operations {
		ops = append(ops, &domain.Operation{
			ID:         op.ID,
			Name:       op.Name,
			Type:       op.Type,
			Skills:     append([]string(nil), op.Skills...),
			OutputCode: op.OutputCode,
		})
	}

	stations := make([]*domain.Station, 0, len(schema.Stations))
	for _, s := range schema.Stations {
		stations = append(stations, &domain.Station{
			ID:           s.ID,
			Name:         s.Name,
			OperationIDs: append([]string(nil), s.OperationIDs...),
			SubSkills:    append([]string(nil), s.SubSkills...),
		})
	}

	workers := make([]*domain.Worker, 0, len(schema.Workers))
	for _, w := range schema.Workers {
		workers = append(workers, &domain.Worker{
			ID:     w.ID,
			Name:   w.Name,
			Skills: append([]string(nil), w.Skills...),
		})
	}

	return ops, stations, workers
}
