package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"project-collab-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func timesheetRoutes(r *gin.Engine) {
	r.POST("/api/tasks/:id/timesheet", MarkTime)
	r.GET("/api/tasks/:id/timesheet", GetTaskTimesheet)
	r.GET("/api/timesheet", GetTimesheetCalendar)
}

func TestMarkTime_EmployeeOnly(t *testing.T) {
	db, _ := setupTest(t)
	guest := seedUser(t, db, "guest", false, false)
	project := seedProject(t, db, "Apollo", guest)
	task := seedTask(t, db, project, "Kickoff")

	w := doJSON(t, timesheetRoutes, guest, http.MethodPost,
		fmt.Sprintf("/api/tasks/%d/timesheet", task.ID), map[string]any{"hours": 2.5})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarkTime_AndTaskSummary(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")

	for _, hours := range []float64{2.5, 1.5} {
		w := doJSON(t, timesheetRoutes, bob, http.MethodPost,
			fmt.Sprintf("/api/tasks/%d/timesheet", task.ID),
			map[string]any{"hours": hours, "date": "03/10/2026"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, timesheetRoutes, bob, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d/timesheet", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	var totals []employeeTotal
	require.NoError(t, json.Unmarshal(body["totals"], &totals))
	require.Len(t, totals, 1)
	require.Equal(t, bob.ID, totals[0].EmployeeID)
	require.InDelta(t, 4.0, totals[0].Hours, 0.001)
}

func TestTimesheetCalendar_PerEmployeeDayTotals(t *testing.T) {
	db, _ := setupTest(t)
	admin := seedUser(t, db, "alice", true, false)
	bob := seedUser(t, db, "bob", false, true)
	project := seedProject(t, db, "Apollo", bob)
	task := seedTask(t, db, project, "Kickoff")

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, hours := range []float64{2, 3} {
		line := models.TimesheetLine{WorkID: task.ID, EmployeeID: bob.ID, Hours: hours, Date: day}
		require.NoError(t, db.Create(&line).Error)
	}

	path := fmt.Sprintf("/api/timesheet?start=%d&end=%d",
		day.AddDate(0, 0, -1).Unix(), day.AddDate(0, 0, 1).Unix())
	w := doJSON(t, timesheetRoutes, admin, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	var days []dayTotal
	require.NoError(t, json.Unmarshal(body["result"], &days))
	require.Len(t, days, 1)
	require.Equal(t, "2026-03-10", days[0].Date)
	require.Equal(t, bob.ID, days[0].EmployeeID)
	require.InDelta(t, 5.0, days[0].Hours, 0.001)
}

func TestTimesheetCalendar_RequiresAdmin(t *testing.T) {
	db, _ := setupTest(t)
	bob := seedUser(t, db, "bob", false, true)

	w := doJSON(t, timesheetRoutes, bob, http.MethodGet, "/api/timesheet?start=0&end=1", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
