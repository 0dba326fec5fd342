package db_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/archidraw/internal/db"
	"github.com/tgienger/archidraw/internal/models"
)

var now = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func getDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	return database
}

func TestNewDatabaseBadPath(t *testing.T) {
	t.Parallel()

	database, err := db.New("/dev/null/archidraw.db")
	assert.Nil(t, database)
	assert.Error(t, err)
}

func TestFreshDatabaseUsesSeeds(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	database := getDB(t)

	projects, err := database.LoadProjects(ctx, now)
	assert.NoError(err)
	assert.Equal(db.SeedProjects(now), projects)

	tasks, err := database.LoadTasks(ctx)
	assert.NoError(err)
	assert.Empty(tasks)
	assert.NotNil(tasks)

	stakeholders, err := database.LoadStakeholders(ctx)
	assert.NoError(err)
	assert.Equal(db.SeedStakeholders(), stakeholders)

	settings, err := database.LoadSettings(ctx)
	assert.NoError(err)
	assert.Equal(models.DefaultSettings(), settings)
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "studio.db")

	database, err := db.New(path)
	require.NoError(t, err)

	due := now.AddDate(0, 0, 2)
	tasks := []models.Task{
		{
			ID: "t1", ProjectID: "p1", Title: "Layout 2D REV 1 - REJECTED", Priority: models.P1,
			Status: models.StatusCompleted, Phase: models.PhaseLayout2D, Revision: 1, CreatedAt: now,
			History: []models.RevisionRecord{{Revision: 1, Note: "Move the island", Date: now}},
		},
		{
			ID: "t2", ProjectID: "p1", Title: "Layout 2D REV 2", Priority: models.P1,
			Status: models.StatusInReview, Phase: models.PhaseLayout2D, Revision: 2, BallWith: "s1",
			CreatedAt: now, DueDate: &due,
			History: []models.RevisionRecord{{Revision: 1, Note: "Move the island", Date: now}},
		},
	}
	projects := []models.Project{{ID: "p9", Name: "Villa", Priority: models.P3, Archived: true, StartDate: now, EndDate: due}}
	stakeholders := []models.Stakeholder{{ID: "s1", Name: "Ayu", Role: models.RoleClient}}
	settings, err := models.DefaultSettings().SetShortcut(models.ShortcutDate, false)
	require.NoError(t, err)

	require.NoError(t, database.SaveTasks(ctx, tasks))
	require.NoError(t, database.SaveProjects(ctx, projects))
	require.NoError(t, database.SaveStakeholders(ctx, stakeholders))
	require.NoError(t, database.SaveSettings(ctx, settings))
	require.NoError(t, database.SetSetting(ctx, "last_project_id", "p9"))
	require.NoError(t, database.Close())

	reopened, err := db.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	gotTasks, err := reopened.LoadTasks(ctx)
	assert.NoError(err)
	assert.Equal(tasks, gotTasks)

	gotProjects, err := reopened.LoadProjects(ctx, now)
	assert.NoError(err)
	assert.Equal(projects, gotProjects)

	gotStakeholders, err := reopened.LoadStakeholders(ctx)
	assert.NoError(err)
	assert.Equal(stakeholders, gotStakeholders)

	gotSettings, err := reopened.LoadSettings(ctx)
	assert.NoError(err)
	assert.False(gotSettings.Shortcuts.EnableDate)
	assert.True(gotSettings.Shortcuts.EnablePriority)

	last, err := reopened.GetSetting(ctx, "last_project_id")
	assert.NoError(err)
	assert.Equal("p9", last)
}

func TestUnreadableDocumentsFallBack(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()
	database := getDB(t)

	require.NoError(t, database.SaveTasks(ctx, []models.Task{{ID: "keep", ProjectID: "p1"}}))
	require.NoError(t, database.PutRaw(ctx, db.CollectionProjects, `{"projects": "v20"}`))
	require.NoError(t, database.PutRaw(ctx, db.CollectionStakeholders, `not json`))
	require.NoError(t, database.PutRaw(ctx, db.CollectionSettings, `[1, 2, 3]`))

	projects, err := database.LoadProjects(ctx, now)
	assert.NoError(err)
	assert.Equal(db.SeedProjects(now), projects)

	stakeholders, err := database.LoadStakeholders(ctx)
	assert.NoError(err)
	assert.Equal(db.SeedStakeholders(), stakeholders)

	settings, err := database.LoadSettings(ctx)
	assert.NoError(err)
	assert.Equal(models.DefaultSettings(), settings)

	// the broken collections do not affect the readable one
	tasks, err := database.LoadTasks(ctx)
	assert.NoError(err)
	require.Len(t, tasks, 1)
	assert.Equal("keep", tasks[0].ID)
	assert.NotNil(tasks[0].History)

	require.NoError(t, database.PutRaw(ctx, db.CollectionTasks, `{`))
	tasks, err = database.LoadTasks(ctx)
	assert.NoError(err)
	assert.Empty(tasks)
}

func TestGetSettingMissing(t *testing.T) {
	t.Parallel()

	value, err := getDB(t).GetSetting(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Empty(t, value)
}
