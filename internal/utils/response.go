package utils

import "github.com/gofiber/fiber/v2"

// Error codes distinguishing the failure taxonomy for API callers.
const (
	CodeValidation    = "validation_error"
	CodeAuthorization = "authorization_error"
	CodeState         = "state_error"
	CodeNotFound      = "not_found"
	CodeInternal      = "internal_error"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendErrorCode(c, status, "", message)
}

// SendErrorCode sends an error response carrying a machine-readable error kind.
func SendErrorCode(c *fiber.Ctx, status int, code, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	})
}
