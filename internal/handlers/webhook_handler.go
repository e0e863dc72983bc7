package handlers

import (
	"net/http"

	"project-collab-api/internal/commits"
	"project-collab-api/internal/database"

	"github.com/gin-gonic/gin"
)

// GitHubWebhook handles POST /webhooks/github
// The provider posts a form with the JSON payload in the "payload" field.
// Malformed payloads are rejected; commits from unknown authors or without
// project references are dropped without error.
func GitHubWebhook(c *gin.Context) {
	handleWebhook(c, commits.ParseGitHub)
}

// BitbucketWebhook handles POST /webhooks/bitbucket
func BitbucketWebhook(c *gin.Context) {
	handleWebhook(c, commits.ParseBitbucket)
}

func handleWebhook(c *gin.Context, parse func([]byte) ([]commits.Commit, error)) {
	payload := c.PostForm("payload")
	if payload == "" {
		c.String(http.StatusBadRequest, "missing payload")
		return
	}

	list, err := parse([]byte(payload))
	if err != nil {
		c.String(http.StatusBadRequest, "malformed payload")
		return
	}

	if _, err := commits.Ingest(database.GetDB(), list); err != nil {
		c.String(http.StatusInternalServerError, "failed to store commits")
		return
	}
	c.String(http.StatusOK, "OK")
}
