package models

import (
	"time"

	"gorm.io/gorm"
)

// Commit is an immutable ingestion record linking an external VCS commit to
// a project and the resolved local user.
type Commit struct {
	gorm.Model
	CommitTimestamp time.Time `json:"commitTimestamp"`

	ProjectID uint  `json:"projectId" gorm:"not null;index"`
	Project   *Work `json:"-" gorm:"foreignKey:ProjectID"`

	UserID uint  `json:"userId" gorm:"not null;index"`
	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Repository    string `json:"repository" gorm:"not null;index"`
	RepositoryURL string `json:"repositoryUrl" gorm:"not null"`
	Message       string `json:"message" gorm:"column:commit_message;not null"`
	CommitURL     string `json:"commitUrl" gorm:"not null"`
	CommitID      string `json:"commitId" gorm:"not null;index"`
}

// TableName specifies the table name for Commit Model
func (Commit) TableName() string {
	return "work_commits"
}
