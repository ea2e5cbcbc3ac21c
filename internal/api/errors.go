package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/querygate-io/querygate/internal/query"
)

// SendError writes the standard error envelope.
func SendError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// isQueryError reports whether err belongs to the query construction
// taxonomy. Those are client mistakes; everything else is a server-side
// failure.
func isQueryError(err error) bool {
	var (
		directive *query.UnknownDirectiveError
		paging    *query.PaginationError
		colType   *query.UnsupportedTypeError
		operator  *query.UnsupportedOperatorError
		value     *query.ValueError
		aggregate *query.AggregateConflictError
		exposure  *query.ExposureError
	)
	return errors.As(err, &directive) ||
		errors.As(err, &paging) ||
		errors.As(err, &colType) ||
		errors.As(err, &operator) ||
		errors.As(err, &value) ||
		errors.As(err, &aggregate) ||
		errors.As(err, &exposure)
}
