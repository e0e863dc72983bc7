package permissions

import (
	"sort"

	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

// EffectiveParticipants computes the full participant set of a work record:
// its direct participants, every org admin, and (recursively) the effective
// participants of its parent. The set is deduplicated and recomputed on
// every call; results are sorted by user ID for stable output.
func EffectiveParticipants(db *gorm.DB, work *models.Work) ([]models.User, error) {
	seen := make(map[uint]models.User)
	if err := collect(db, work, seen); err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(seen))
	for _, u := range seen {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func collect(db *gorm.DB, work *models.Work, seen map[uint]models.User) error {
	var direct []models.User
	if err := db.Model(work).Association("Participants").Find(&direct); err != nil {
		return err
	}
	for _, u := range direct {
		seen[u.ID] = u
	}

	var admins []models.User
	if err := db.Where("is_admin = ?", true).Find(&admins).Error; err != nil {
		return err
	}
	for _, u := range admins {
		seen[u.ID] = u
	}

	if work.ParentID != nil {
		var parent models.Work
		if err := db.First(&parent, *work.ParentID).Error; err != nil {
			return err
		}
		return collect(db, &parent, seen)
	}
	return nil
}

// IsDirectParticipant reports whether the user is in the work record's own
// participant list (inheritance and admin status not considered).
func IsDirectParticipant(db *gorm.DB, work *models.Work, userID uint) (bool, error) {
	var count int64
	err := db.Table("work_participants").
		Where("work_id = ? AND user_id = ?", work.ID, userID).
		Count(&count).Error
	return count > 0, err
}

// CanRead reports whether the user may read the work record: admins always,
// everyone else only through direct participation. Handlers surface a
// denial as 404 so outsiders cannot distinguish hidden from missing.
func CanRead(db *gorm.DB, work *models.Work, user *models.User) (bool, error) {
	if user.IsAdmin {
		return true, nil
	}
	return IsDirectParticipant(db, work, user.ID)
}

// CanWrite reports whether the user may write to the work record. The rule
// is currently identical to CanRead; it stays a separate function so a
// stricter write policy has somewhere to live.
func CanWrite(db *gorm.DB, work *models.Work, user *models.User) (bool, error) {
	return CanRead(db, work, user)
}
