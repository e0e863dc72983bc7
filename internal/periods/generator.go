package periods

import (
	"errors"
	"time"

	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

// ErrOverlap is returned when a period's inclusive date range intersects an
// existing active period. Ranges that merely touch at a boundary count as
// overlapping.
var ErrOverlap = errors.New("work period overlaps an existing period")

const strideDays = 7

// Generate splits [start, end] into weekly buckets. Each stride covers seven
// days with its upper bound clamped to end; the next stride begins the day
// after the previous one ends. Returns no periods when start >= end.
func Generate(start, end time.Time) []models.WorkPeriod {
	var out []models.WorkPeriod
	periodStart := start
	for periodStart.Before(end) {
		periodEnd := periodStart.AddDate(0, 0, strideDays)
		if periodEnd.After(end) {
			periodEnd = end
		}
		out = append(out, models.WorkPeriod{
			Name:      periodName(periodStart, periodEnd),
			StartDate: periodStart,
			EndDate:   periodEnd,
			Active:    true,
		})
		periodStart = periodEnd.AddDate(0, 0, 1)
	}
	return out
}

// periodName renders "02/Jan", range-qualified as "02/Jan - 09/Jan" only
// when the two abbreviations differ.
func periodName(start, end time.Time) string {
	name := start.Format("02/Jan")
	if endName := end.Format("02/Jan"); endName != name {
		name += " - " + endName
	}
	return name
}

// CheckOverlap returns ErrOverlap if the given period's range intersects any
// other active stored period (inclusive bounds).
func CheckOverlap(db *gorm.DB, period *models.WorkPeriod) error {
	var count int64
	err := db.Model(&models.WorkPeriod{}).
		Where("active = ?", true).
		Where("id <> ?", period.ID).
		Where("(start_date <= ? AND end_date >= ?) OR (start_date <= ? AND end_date >= ?) OR (start_date >= ? AND end_date <= ?)",
			period.StartDate, period.StartDate,
			period.EndDate, period.EndDate,
			period.StartDate, period.EndDate).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrOverlap
	}
	return nil
}

// CreateRange generates weekly periods between start and end and persists
// them, rejecting any period that overlaps an existing active one.
func CreateRange(db *gorm.DB, start, end time.Time) ([]models.WorkPeriod, error) {
	generated := Generate(start, end)
	created := make([]models.WorkPeriod, 0, len(generated))
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range generated {
			if err := CheckOverlap(tx, &generated[i]); err != nil {
				return err
			}
			if err := tx.Create(&generated[i]).Error; err != nil {
				return err
			}
			created = append(created, generated[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
