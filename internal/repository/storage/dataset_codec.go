package storage

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
)

// DecodeDataset reads a JSON dataset document
func DecodeDataset(r io.Reader) (*domain.Dataset, error) {
	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}
