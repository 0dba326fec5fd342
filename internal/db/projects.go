package db

import (
	"context"
	"time"

	"github.com/tgienger/archidraw/internal/models"
)

// LoadProjects returns the saved projects, or the seed project when none are saved
func (db *DB) LoadProjects(ctx context.Context, now time.Time) ([]models.Project, error) {
	var projects []models.Project
	ok, err := db.loadDocument(ctx, CollectionProjects, &projects)
	if err != nil {
		return nil, err
	}
	if !ok {
		return SeedProjects(now), nil
	}
	return projects, nil
}

// SaveProjects replaces the saved projects
func (db *DB) SaveProjects(ctx context.Context, projects []models.Project) error {
	if projects == nil {
		projects = []models.Project{}
	}
	return db.saveDocument(ctx, CollectionProjects, projects)
}
