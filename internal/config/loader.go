package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadAll reads roster.yaml and encounter.yaml from dir. A missing
// encounter.yaml yields an empty document so callers fall back to defaults.
func LoadAll(dir string) (*RosterConfig, *EncounterConfig, error) {
	var rc RosterConfig
	var ec EncounterConfig
	if err := loadYAML(filepath.Join(dir, "roster.yaml"), &rc); err != nil {
		return nil, nil, fmt.Errorf("read roster: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "encounter.yaml"), &ec); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("read encounter: %w", err)
	}
	if err := ValidateRoster(&rc); err != nil {
		return nil, nil, err
	}
	if err := ValidateEncounter(&ec, &rc); err != nil {
		return nil, nil, err
	}
	return &rc, &ec, nil
}

func LoadPlan(path string) (*PlanConfig, error) {
	var pc PlanConfig
	if err := loadYAML(path, &pc); err != nil {
		return nil, fmt.Errorf("read plan %s: %w", filepath.Base(path), err)
	}
	if err := ValidatePlan(&pc); err != nil {
		return nil, err
	}
	return &pc, nil
}
