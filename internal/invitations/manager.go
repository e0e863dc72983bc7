package invitations

import (
	"crypto/rand"
	"errors"
	"math/big"

	"project-collab-api/internal/models"

	"gorm.io/gorm"
)

const (
	codeLength   = 20
	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateCode returns a random 20-character alphanumeric invitation code.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// Create persists a pending invitation for the email/project pair with a
// fresh code, regenerating on the (unlikely) collision with an existing one.
func Create(db *gorm.DB, email string, projectID uint) (*models.Invitation, error) {
	for {
		code, err := GenerateCode()
		if err != nil {
			return nil, err
		}
		var count int64
		if err := db.Model(&models.Invitation{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}
		invite := models.Invitation{
			Email:     email,
			Code:      code,
			ProjectID: projectID,
		}
		if err := db.Create(&invite).Error; err != nil {
			return nil, err
		}
		return &invite, nil
	}
}

// Accept links a newly registered user to the invitation carrying the given
// code, clears the code so it can never be presented again and adds the
// user to the project's participants. Unknown or already consumed codes are
// a silent no-op: (nil, nil).
func Accept(db *gorm.DB, code string, userID uint) (*models.Invitation, error) {
	if code == "" {
		return nil, nil
	}

	var invite models.Invitation
	err := db.Where("code = ?", code).First(&invite).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&invite).Updates(map[string]any{
			"user_id": userID,
			"code":    "",
		}).Error; err != nil {
			return err
		}

		var project models.Work
		if err := tx.First(&project, invite.ProjectID).Error; err != nil {
			return err
		}
		return tx.Model(&project).Association("Participants").Append(&models.User{Model: gorm.Model{ID: userID}})
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
