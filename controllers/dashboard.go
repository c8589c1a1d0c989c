package controllers

import (
	"net/http"

	"watrigger/store"

	"github.com/gin-gonic/gin"
)

const dashboardFeedLimit = 100

type dashboardMessage struct {
	store.DashboardMessage
	DisplayName string `json:"display_name"`
}

// GET /api/dashboard/messages
// Latest messages across all triggers, newest first, capped at 100.
func GetDashboardMessages(c *gin.Context) {
	db, ok := requireDB(c)
	if !ok {
		return
	}

	rows, err := store.MessageStore{DB: db}.ListRecent(dashboardFeedLimit)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]dashboardMessage, 0, len(rows))
	for _, row := range rows {
		display := row.Sender
		if row.ContactName != "" {
			display = row.ContactName + " (" + row.Sender + ")"
		}
		out = append(out, dashboardMessage{DashboardMessage: row, DisplayName: display})
	}

	RespondSuccess(c, gin.H{"messages": out})
}
