package handlers

import (
	"errors"

	"cafeconnect/internal/cart"
	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// Response is the success envelope of every API endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// ErrorResponse is the failure envelope. Errors lists failing fields of a rejected document.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// StatusFor classifies a service error into an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidReference),
		errors.Is(err, cart.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func respondList[T any](c *fiber.Ctx, items []T) error {
	count := len(items)
	if items == nil {
		items = []T{}
	}
	return c.JSON(Response{Success: true, Data: items, Count: &count})
}

// respondError writes the failure envelope for err. action describes what failed,
// e.g. "Could not create cafe".
func respondError(c *fiber.Ctx, action string, err error) error {
	status := StatusFor(err)
	entry := log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"status": status,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error(action)
	} else {
		entry.Debug(action)
	}

	body := ErrorResponse{Error: action, Message: err.Error()}
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Fields
	}
	return c.Status(status).JSON(body)
}

// decoder reads the request body into a document.
func decoder(c *fiber.Ctx) services.Decoder {
	return func(dst any) error {
		return c.BodyParser(dst)
	}
}

// updateMode maps PUT to a full replacement and PATCH to a merge.
func updateMode(c *fiber.Ctx) services.UpdateMode {
	if c.Method() == fiber.MethodPatch {
		return services.UpdatePartial
	}
	return services.UpdateFull
}

// Guard is the middleware chain placed in front of protected routes. An empty guard
// leaves routes open.
type Guard []fiber.Handler

func (g Guard) then(h fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(g)+1)
	return append(append(chain, g...), h)
}
