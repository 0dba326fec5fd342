package db

import (
	"time"

	"github.com/tgienger/archidraw/internal/models"
)

// seedProjectSpan is how long the seed project runs
const seedProjectSpan = 30 * 24 * time.Hour

// SeedProjects is the starting project list for a fresh studio
func SeedProjects(now time.Time) []models.Project {
	return []models.Project{
		{
			ID:          "p1",
			Name:        "Penthouse Dharmawangsa",
			Description: "Luxury Modern Classic",
			Priority:    models.P1,
			StartDate:   now,
			EndDate:     now.Add(seedProjectSpan),
			ClientName:  "Bapak Surya",
		},
	}
}

// SeedStakeholders is the starting reviewer directory
func SeedStakeholders() []models.Stakeholder {
	return []models.Stakeholder{
		{ID: "s1", Name: "Bapak Surya", Role: models.RoleClient},
		{ID: "s2", Name: "Budi Santoso", Role: models.RoleContractor},
		{ID: "s3", Name: "Rina Marmer", Role: models.RoleVendor},
		{ID: "s4", Name: "Dewi MEP", Role: models.RoleConsultant},
		{ID: "s5", Name: "Studio Lead", Role: models.RoleInternal},
	}
}
