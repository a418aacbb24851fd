package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-currency-converter/domain"
)

// Encode renders provider listings in the dataset format read by Load
func Encode(listings map[string]domain.Listing) ([]byte, error) {
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: no currencies", domain.ErrDataset)
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile replaces the dataset at path. The new dataset is checked with Load against
// registry first and written atomically, so a bad refresh never replaces a good dataset.
func WriteFile(path string, listings map[string]domain.Listing, registry Registry) (*Catalog, error) {
	data, err := Encode(listings)
	if err != nil {
		return nil, err
	}
	c, err := Load(data, registry)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".currencies-*.json")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("replacing %s: %w", path, err)
	}
	return c, nil
}
