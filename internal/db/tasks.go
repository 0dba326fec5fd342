package db

import (
	"context"

	"github.com/tgienger/archidraw/internal/models"
)

// LoadTasks returns the saved tasks; a missing or unreadable document yields none
func (db *DB) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	ok, err := db.loadDocument(ctx, CollectionTasks, &tasks)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Task{}, nil
	}
	for i := range tasks {
		if tasks[i].History == nil {
			tasks[i].History = []models.RevisionRecord{}
		}
	}
	return tasks, nil
}

// SaveTasks replaces the saved tasks
func (db *DB) SaveTasks(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return db.saveDocument(ctx, CollectionTasks, tasks)
}
