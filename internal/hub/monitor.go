package hub

import (
	"sort"

	"github.com/anishverma926/Chat-App/internal/model"
)

// MonitorService gathers registry statistics for the monitoring API.
type MonitorService struct {
	registry *Registry
}

// NewMonitorService creates a new monitor service.
func NewMonitorService(registry *Registry) *MonitorService {
	return &MonitorService{registry: registry}
}

// GetStats returns a point-in-time view of the connection registry.
func (ms *MonitorService) GetStats() model.MonitorResponse {
	perUser := make(map[string]int)
	for _, c := range ms.registry.AllClients() {
		perUser[c.UserID]++
	}

	users := make([]model.UserConnections, 0, len(perUser))
	total := 0
	for userID, count := range perUser {
		users = append(users, model.UserConnections{
			UserID:      userID,
			Connections: count,
		})
		total += count
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].UserID < users[j].UserID
	})

	status := "healthy"
	if total == 0 {
		status = "idle"
	}

	return model.MonitorResponse{
		Status:           status,
		TotalConnections: total,
		OnlineUsers:      len(users),
		Users:            users,
	}
}
