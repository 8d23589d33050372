package api

import "github.com/satriahrh/suara/domain/entities"

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResponse represents the response payload for a successful login
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// CurrentUserResponse is returned by /api/currentuser for both anonymous and known callers
type CurrentUserResponse struct {
	Authenticated bool          `json:"authenticated"`
	Message       string        `json:"message"`
	User          *UserResponse `json:"user,omitempty"`
}

// TranscriptionResponse represents a successful transcription
type TranscriptionResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MessageResponse carries a single informational message
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *entities.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}
