package handlers

import (
	"errors"
	"net/http"
	"time"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"
	"project-collab-api/internal/periods"

	"github.com/gin-gonic/gin"
)

// CreatePeriodsRequest represents the request payload for generating work
// periods. Dates arrive in month/day/year form.
type CreatePeriodsRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// CreatePeriods handles POST /api/periods (admin only)
// Partitions the requested range into week-long periods; a range touching
// any existing active period is rejected as a whole.
func CreatePeriods(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}

	var req CreatePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(constraintDateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be in month/day/year format"})
		return
	}
	end, err := time.Parse(constraintDateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be in month/day/year format"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not precede startDate"})
		return
	}

	created, err := periods.CreateRange(database.GetDB(), start, end)
	if err != nil {
		if errors.Is(err, periods.ErrOverlap) {
			c.JSON(http.StatusConflict, gin.H{"error": "Requested range overlaps an existing work period"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work periods"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"periods": created,
		"count":   len(created),
	})
}

// ListPeriods handles GET /api/periods (admin only)
func ListPeriods(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}

	var list []models.WorkPeriod
	err := database.GetDB().Where("active = ?", true).Order("start_date asc").Find(&list).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch work periods"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": list, "count": len(list)})
}
