package handlers

import (
	"net/http"
	"sort"
	"time"

	"project-collab-api/internal/database"
	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MarkTimeRequest represents the request payload for logging hours
type MarkTimeRequest struct {
	Hours float64 `json:"hours" binding:"required,gt=0"`
	Date  string  `json:"date"` // 01/02/2006, defaults to today
}

// MarkTime handles POST /api/tasks/:id/timesheet (employees only)
func MarkTime(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsEmployee {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only employees can log hours"})
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var req MarkTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(constraintDateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in month/day/year format"})
			return
		}
		date = parsed
	}

	line := models.TimesheetLine{
		WorkID:     task.ID,
		EmployeeID: user.ID,
		Hours:      req.Hours,
		Date:       date,
	}
	if err := database.GetDB().Create(&line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log hours"})
		return
	}
	c.JSON(http.StatusCreated, line)
}

// employeeTotal is one row of the per-task timesheet summary.
type employeeTotal struct {
	EmployeeID uint    `json:"employeeId"`
	Name       string  `json:"name"`
	Hours      float64 `json:"hours"`
}

// GetTaskTimesheet handles GET /api/tasks/:id/timesheet
// Hours logged on the task, totalled per employee.
func GetTaskTimesheet(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	task, ok := getTask(c, user, taskID)
	if !ok {
		return
	}

	var totals []employeeTotal
	err := database.GetDB().Model(&models.TimesheetLine{}).
		Select("timesheet_lines.employee_id, users.name, SUM(timesheet_lines.hours) AS hours").
		Joins("JOIN users ON users.id = timesheet_lines.employee_id").
		Where("timesheet_lines.work_id = ?", task.ID).
		Group("timesheet_lines.employee_id, users.name").
		Order("hours desc").
		Scan(&totals).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timesheet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals})
}

// dayTotal is one calendar entry of a timesheet feed: the hours one
// employee logged on one day.
type dayTotal struct {
	Date       string  `json:"date"`
	EmployeeID uint    `json:"employeeId"`
	Employee   string  `json:"employee"`
	Hours      float64 `json:"hours"`
}

func dayTotals(query *gorm.DB, window timeWindow) ([]dayTotal, error) {
	var lines []models.TimesheetLine
	err := query.Preload("Employee").
		Where("timesheet_lines.date >= ? AND timesheet_lines.date <= ?", window.start, window.end).
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		day      string
		employee uint
	}
	totals := map[key]*dayTotal{}
	for _, l := range lines {
		k := key{day: l.Date.UTC().Format("2006-01-02"), employee: l.EmployeeID}
		if t, ok := totals[k]; ok {
			t.Hours += l.Hours
			continue
		}
		name := ""
		if l.Employee != nil {
			name = l.Employee.Name
		}
		totals[k] = &dayTotal{Date: k.day, EmployeeID: l.EmployeeID, Employee: name, Hours: l.Hours}
	}

	days := make([]dayTotal, 0, len(totals))
	for _, t := range totals {
		days = append(days, *t)
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Date != days[j].Date {
			return days[i].Date < days[j].Date
		}
		return days[i].EmployeeID < days[j].EmployeeID
	})
	return days, nil
}

// GetTimesheetCalendar handles GET /api/timesheet (admin only)
// Day totals across all projects inside the unix start/end window.
func GetTimesheetCalendar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !requireAdmin(c, user) {
		return
	}
	window, ok := parseUnixWindow(c)
	if !ok {
		return
	}

	days, err := dayTotals(database.GetDB().Model(&models.TimesheetLine{}), window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timesheet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": days})
}

// GetProjectTimesheetCalendar handles GET /api/projects/:id/timesheet
// Day totals for hours logged on the project's tasks.
func GetProjectTimesheetCalendar(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	project, ok := getProject(c, user, projectID)
	if !ok {
		return
	}
	window, ok := parseUnixWindow(c)
	if !ok {
		return
	}

	query := database.GetDB().Model(&models.TimesheetLine{}).
		Joins("JOIN works ON works.id = timesheet_lines.work_id").
		Where("works.parent_id = ?", project.ID)
	days, err := dayTotals(query, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch timesheet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": days})
}
