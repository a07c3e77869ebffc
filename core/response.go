package core

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the uniform failure envelope returned by every endpoint.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// genericMessage is used for errors that carry no client-safe text.
const genericMessage = "Oops, something went wrong!"

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err through the uniform failure envelope. Application
// errors keep their status code and message; everything else becomes a 500
// with a generic message.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := genericMessage

	if appErr, ok := AsError(err); ok {
		status = appErr.Code
		message = appErr.Message
	}

	JSON(w, status, ErrorResponse{
		Success:    false,
		Error:      message,
		StatusCode: status,
	})
}
