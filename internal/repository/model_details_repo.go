package repository

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/headstoneworld/orders-api/internal/models"
)

// ModelDetailsRepository reads the monument model catalog CSV and mirrors it
// to a JSON file for downstream consumers.
type ModelDetailsRepository interface {
	Load() ([]models.ModelDetail, error)
}

type csvModelDetailsRepository struct {
	csvPath  string
	jsonPath string
	logger   zerolog.Logger
}

// NewModelDetailsRepository constructs a catalog repository over the CSV at
// csvPath, mirroring loads into jsonPath.
func NewModelDetailsRepository(csvPath, jsonPath string, logger zerolog.Logger) ModelDetailsRepository {
	return &csvModelDetailsRepository{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		logger:   logger.With().Str("component", "model_details").Logger(),
	}
}

func (r *csvModelDetailsRepository) Load() ([]models.ModelDetail, error) {
	f, err := os.Open(r.csvPath)
	if err != nil {
		return nil, fmt.Errorf("open model catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if len(rows) == 0 {
		return []models.ModelDetail{}, nil
	}

	headers := rows[0]
	details := make([]models.ModelDetail, 0, len(rows)-1)
	for _, row := range rows[1:] {
		detail := models.ModelDetail{}
		for i, header := range headers {
			if i < len(row) {
				detail[header] = row[i]
			}
		}
		details = append(details, detail)
	}

	raw, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode model catalog: %w", err)
	}
	if err := os.WriteFile(r.jsonPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("mirror model catalog: %w", err)
	}
	return details, nil
}
