package presenter

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/raian-antunes/group-management-platform/internal/domain"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func BadRequest(c echo.Context, err error) error {
	fmt.Println("Bad request:", err)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	fmt.Println("Bad request:", msg)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func ValidationFailed(c echo.Context, fields map[string][]string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

func NotFound(c echo.Context, msg string) error {
	fmt.Println("Not found:", msg)
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
}

func Forbidden(c echo.Context) error {
	return c.NoContent(http.StatusForbidden)
}

// InternalError logs the full chain server-side and returns a generic
// message; internal detail never reaches the caller.
func InternalError(c echo.Context, err error) error {
	slog.Error(
		"Internal error",
		slog.String("error", fmt.Sprintf("%+v", err)),
		slog.String("path", c.Request().URL.Path),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

// Error maps a domain error to its HTTP shape. Anything outside the
// taxonomy is a persistence fault and turns into a generic 500.
func Error(c echo.Context, err error) error {
	var validation domain.ValidationError
	if errors.As(err, &validation) {
		return ValidationFailed(c, validation.Fields)
	}

	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		return NotFound(c, notFound.Error())
	}

	var conflict domain.ConflictError
	if errors.As(err, &conflict) {
		return Conflict(c, conflict.Error())
	}

	if errors.Is(err, domain.ErrUnauthenticated) {
		return Unauthorized(c)
	}

	if errors.Is(err, domain.ErrForbidden) {
		return Forbidden(c)
	}

	return InternalError(c, err)
}
