package db

import (
	"context"

	"github.com/tgienger/archidraw/internal/models"
)

// LoadStakeholders returns the saved directory, or the seed directory
func (db *DB) LoadStakeholders(ctx context.Context) ([]models.Stakeholder, error) {
	var stakeholders []models.Stakeholder
	ok, err := db.loadDocument(ctx, CollectionStakeholders, &stakeholders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return SeedStakeholders(), nil
	}
	return stakeholders, nil
}

// SaveStakeholders replaces the saved directory
func (db *DB) SaveStakeholders(ctx context.Context, stakeholders []models.Stakeholder) error {
	if stakeholders == nil {
		stakeholders = []models.Stakeholder{}
	}
	return db.saveDocument(ctx, CollectionStakeholders, stakeholders)
}

// LoadSettings returns the saved preferences. Missing fields keep their defaults.
func (db *DB) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	ok, err := db.loadDocument(ctx, CollectionSettings, &settings)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// SaveSettings replaces the saved preferences
func (db *DB) SaveSettings(ctx context.Context, settings models.Settings) error {
	return db.saveDocument(ctx, CollectionSettings, settings)
}
