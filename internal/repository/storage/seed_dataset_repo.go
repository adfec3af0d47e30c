package storage

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
)

//go:embed seed/dataset.json
var seedDataset []byte

// SeedDatasetRepository serves the dataset bundled with the binary
type SeedDatasetRepository struct{}

// NewSeedDatasetRepository creates a new SeedDatasetRepository
func NewSeedDatasetRepository() *SeedDatasetRepository {
	return &SeedDatasetRepository{}
}

// Load decodes the bundled dataset
func (r *SeedDatasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	return DecodeDataset(bytes.NewReader(seedDataset))
}

// FileDatasetRepository reads a dataset document from the local filesystem
type FileDatasetRepository struct {
	path string
}

// NewFileDatasetRepository creates a new FileDatasetRepository
func NewFileDatasetRepository(path string) *FileDatasetRepository {
	return &FileDatasetRepository{path: path}
}

// Load opens and decodes the dataset file
func (r *FileDatasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}
