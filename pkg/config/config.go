// Package config loads and validates the search parameters the demo CLI
// wires into costmatrix.Matrix: bucket width, cost ceiling, and worker
// concurrency. The search radius is loaded and validated as well, but
// the demo CLI does not pass it on (its searches run without the A*
// heuristic).
package config

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/spf13/viper"
)

// SearchConfig holds the tunables for a search or cost matrix run.
type SearchConfig struct {
	// BucketWidth is the bucket queue's fixed bucket width, in the same
	// cost units as Costing.EdgeCost.
	BucketWidth float64 `mapstructure:"bucket_width" validate:"required,gt=0"`
	// MaxCost bounds the search horizon; labels whose sortcost is at or
	// beyond it are never queued.
	MaxCost float64 `mapstructure:"max_cost" validate:"required,gt=0"`
	// SearchRadiusMeters sizes the A* heuristic's admissible disc.
	SearchRadiusMeters float64 `mapstructure:"search_radius_meters" validate:"required,gt=0"`
	// Concurrency bounds costmatrix.Matrix's parallel Initialize step.
	Concurrency int `mapstructure:"concurrency" validate:"required,gt=0"`
}

// Load reads a config file named "config" from path (any format viper
// supports: yaml, json, toml, ...), decodes it into a SearchConfig, and
// validates it, returning translated, human-readable messages on
// failure.
func Load(path string) (*SearchConfig, error) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading config file: %w", err)
	}

	cfg := &SearchConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding config file: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *SearchConfig) error {
	english := en.New()
	translator := ut.New(english, english)
	uni, _ := translator.GetTranslator("en")

	v := validator.New()
	if err := enTranslations.RegisterDefaultTranslations(v, uni); err != nil {
		return fmt.Errorf("config: registering validator translations: %w", err)
	}

	if err := v.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("config: validating: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(uni))
		}
		return fmt.Errorf("config: invalid: %v", msgs)
	}
	return nil
}
