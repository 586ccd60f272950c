package dto

import "net/http"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewError(status int, message string) ErrorResponse {
	return ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}
