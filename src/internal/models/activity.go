package models

import "time"

type ActivityMessage struct {
	EmployeeID  string    `json:"employee_id"`
	SessionID   string    `json:"session_id"`
	ServiceName string    `json:"service_name"`
	Action      string    `json:"action"`
	IPAddress   string    `json:"ip_address,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Activity action constants
const (
	ActionRegistered = "registered"
	ActionLoggedIn   = "logged_in"
	ActionLoggedOut  = "logged_out"
)

// Service name constants
const (
	ServiceAuth = "employee-review.handler.auth"
)
