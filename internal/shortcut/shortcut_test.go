package shortcut_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/shortcut"
)

// Thursday
var now = time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

func directory() []models.Stakeholder {
	return []models.Stakeholder{
		{ID: "s1", Name: "Budiman", Role: models.RoleContractor},
		{ID: "s2", Name: "Budi", Role: models.RoleClient},
		{ID: "s3", Name: "Sari Wijaya", Role: models.RoleConsultant},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseFullShortcut(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	res := shortcut.Parse("Finalize layout @Budi p1 tomorrow", directory(), shortcut.AllEnabled(), now)

	assert.Equal("Finalize layout", res.CleanTitle)
	assert.Equal(models.P1, res.Priority)
	// exact match wins over the earlier prefix match "Budiman"
	assert.Equal("s2", res.StakeholderID)
	assert.Empty(res.NewStakeholderName)
	require.NotNil(t, res.DueDate)
	assert.Equal(day(2026, time.October, 16), *res.DueDate)
}

func TestParseUnknownMention(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	res := shortcut.Parse("Finalize layout @Budi p1 tomorrow", nil, shortcut.AllEnabled(), now)
	assert.Equal("Budi", res.NewStakeholderName)
	assert.Empty(res.StakeholderID)

	res = shortcut.Parse("Check tiles @McKenzie.Ltd", directory(), shortcut.AllEnabled(), now)
	assert.Equal("McKenzie.Ltd", res.NewStakeholderName)
	assert.Equal("Check tiles", res.CleanTitle)
}

func TestParsePrefixMention(t *testing.T) {
	t.Parallel()

	res := shortcut.Parse("Send samples @sar", directory(), shortcut.AllEnabled(), now)
	assert.Equal(t, "s3", res.StakeholderID)
}

func TestParseAllDisabled(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	input := "Finalize layout @Budi p1 tomorrow"
	res := shortcut.Parse(input, directory(), shortcut.Options{}, now)

	assert.Equal(input, res.CleanTitle)
	assert.Equal(models.Priority(0), res.Priority)
	assert.Empty(res.StakeholderID)
	assert.Empty(res.NewStakeholderName)
	assert.Nil(res.DueDate)
}

func TestParseWithoutAutoClean(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	opts := shortcut.AllEnabled()
	opts.AutoClean = false
	res := shortcut.Parse("Ceiling  detail P2 next week", directory(), opts, now)

	assert.Equal("Ceiling detail P2 next week", res.CleanTitle)
	assert.Equal(models.P2, res.Priority)
	require.NotNil(t, res.DueDate)
	assert.Equal(day(2026, time.October, 22), *res.DueDate)
}

func TestParsePriorityFirstMatchOnly(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	res := shortcut.Parse("mp3 render p3 then p1", nil, shortcut.AllEnabled(), now)
	assert.Equal(models.P3, res.Priority)
	assert.Equal("mp3 render then p1", res.CleanTitle)
}

func TestParseDateKeywordOrder(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	// "today" is scanned before "tomorrow" regardless of position in the text
	res := shortcut.Parse("tomorrow or today", nil, shortcut.AllEnabled(), now)
	require.NotNil(t, res.DueDate)
	assert.Equal(day(2026, time.October, 15), *res.DueDate)
	assert.Equal("tomorrow or", res.CleanTitle)

	// whole words only
	res = shortcut.Parse("todays list", nil, shortcut.AllEnabled(), now)
	assert.Nil(res.DueDate)
}

func TestParseMidWeek(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday", day(2026, time.October, 12), day(2026, time.October, 14)},
		{"wednesday advances a week", day(2026, time.October, 14), day(2026, time.October, 21)},
		{"thursday", day(2026, time.October, 15), day(2026, time.October, 21)},
		{"sunday", day(2026, time.October, 18), day(2026, time.October, 21)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := shortcut.Parse("Site visit MID WEEK", nil, shortcut.AllEnabled(), tt.now)
			require.NotNil(t, res.DueDate)
			assert.Equal(t, tt.want, *res.DueDate)
			assert.Equal(t, "Site visit", res.CleanTitle)
		})
	}
}

func TestParseNoMatch(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	res := shortcut.Parse("  Revise   elevation ", directory(), shortcut.AllEnabled(), now)
	assert.Equal("Revise elevation", res.CleanTitle)
	assert.Equal(models.Priority(0), res.Priority)
	assert.Nil(res.DueDate)
}

func TestOptionsFrom(t *testing.T) {
	t.Parallel()

	opts := shortcut.OptionsFrom(models.DefaultSettings().Shortcuts)
	assert.Equal(t, shortcut.AllEnabled(), opts)
}
