package model

// MonitorResponse is the main response for the monitor API.
type MonitorResponse struct {
	Status           string            `json:"status"` // "healthy" or "idle"
	TotalConnections int               `json:"totalConnections"`
	OnlineUsers      int               `json:"onlineUsers"`
	Users            []UserConnections `json:"users"`
}

// UserConnections reports how many live connections a single user holds.
type UserConnections struct {
	UserID      string `json:"userId"`
	Connections int    `json:"connections"`
}
