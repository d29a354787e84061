package tui

import (
	"net/http"

	"taskdeck/internal/api"
)

// User-facing failure messages keyed by HTTP status where the server's
// statuses have a known meaning; raw technical detail never reaches the
// screen (it goes to the diagnostics log inside the api client).

func loginFailMessage(err error) string {
	switch api.StatusCode(err) {
	case http.StatusUnprocessableEntity:
		return "Invalid request. Check your username/password."
	case http.StatusUnauthorized:
		return "Invalid username or password."
	}
	return "Login failed. Please try again."
}

func registerFailMessage(err error) string {
	if api.StatusCode(err) == http.StatusBadRequest {
		return "Username already exists."
	}
	return "Registration failed. Try again."
}

const (
	msgTasksFetchFailed  = "Failed to fetch tasks. Please login again."
	msgCreateFailed      = "Failed to create task"
	msgUpdateFailed      = "Failed to update task"
	msgDeleteFailed      = "Failed to delete task"
	msgAnalyticsFailed   = "Failed to load analytics"
	msgCreated           = "Task created successfully!"
	msgUpdated           = "Task updated successfully!"
	msgDeleted           = "Task deleted successfully!"
	msgRegistered        = "Registration successful! You can now log in."
	msgSelectToUpdate    = "Select a task to update"
	msgSelectToDelete    = "Select a task to delete"
	msgSessionElsewhere  = "Logged out in another session."
	msgAnalyticsNotAdmin = "Analytics is restricted to admins."
)
