package screening

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Criteria holds the thresholds the engine screens against.
type Criteria struct {
	// DefaultRating replaces an unknown analyst rating.
	DefaultRating int `yaml:"default_rating" json:"default_rating"`
	// MaxRating is the worst rating that still passes (1 strong buy .. 5 sell).
	MaxRating int `yaml:"max_rating" json:"max_rating"`
	// MaxDebtToAsset is the highest passing total debt / total assets ratio.
	MaxDebtToAsset float64 `yaml:"max_debt_to_asset" json:"max_debt_to_asset"`
	// MaxCurrentRatio is the highest passing current ratio.
	MaxCurrentRatio float64 `yaml:"max_current_ratio" json:"max_current_ratio"`
	// MaxPE is the highest passing effective P/E.
	MaxPE float64 `yaml:"max_pe" json:"max_pe"`
	// MaxPriceToBook is an exclusive upper bound for price to book.
	MaxPriceToBook float64 `yaml:"max_price_to_book" json:"max_price_to_book"`
}

// DefaultCriteria returns the canonical Graham filter thresholds.
func DefaultCriteria() Criteria {
	return Criteria{
		DefaultRating:   3,
		MaxRating:       3,
		MaxDebtToAsset:  1.10,
		MaxCurrentRatio: 1.50,
		MaxPE:           9,
		MaxPriceToBook:  1.20,
	}
}

// LoadCriteria reads thresholds from a YAML file. Keys missing from the file
// keep their default value.
//
// Example file:
//
//	max_pe: 12
//	max_price_to_book: 1.5
func LoadCriteria(path string) (Criteria, error) {
	criteria := DefaultCriteria()

	data, err := os.ReadFile(path)
	if err != nil {
		return Criteria{}, fmt.Errorf("failed to read criteria file: %w", err)
	}

	if err := yaml.Unmarshal(data, &criteria); err != nil {
		return Criteria{}, fmt.Errorf("failed to parse criteria file %s: %w", path, err)
	}

	if err := criteria.Validate(); err != nil {
		return Criteria{}, fmt.Errorf("invalid criteria in %s: %w", path, err)
	}

	return criteria, nil
}

// Validate checks that every threshold is usable.
func (c Criteria) Validate() error {
	if c.DefaultRating < 1 || c.DefaultRating > 5 {
		return fmt.Errorf("default_rating must be between 1 and 5, got %d", c.DefaultRating)
	}
	if c.MaxRating < 1 || c.MaxRating > 5 {
		return fmt.Errorf("max_rating must be between 1 and 5, got %d", c.MaxRating)
	}
	if c.MaxDebtToAsset <= 0 {
		return fmt.Errorf("max_debt_to_asset must be positive, got %v", c.MaxDebtToAsset)
	}
	if c.MaxCurrentRatio <= 0 {
		return fmt.Errorf("max_current_ratio must be positive, got %v", c.MaxCurrentRatio)
	}
	if c.MaxPE <= 0 {
		return fmt.Errorf("max_pe must be positive, got %v", c.MaxPE)
	}
	if c.MaxPriceToBook <= 0 {
		return fmt.Errorf("max_price_to_book must be positive, got %v", c.MaxPriceToBook)
	}
	return nil
}
