package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/generated/servers"
	"laundry/internal/pkg/errorbank"
	"laundry/internal/pkg/errs"
)

// toAppError is the single place where domain errors become API errors.
func toAppError(err error) *errorbank.AppError {
	var appErr *errorbank.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, commands.ErrEstimationFailed):
		return errorbank.BadRequest("price estimation failed, please try again", errorbank.WithCause(err))
	case errors.Is(err, commands.ErrNoPartnerAvailable):
		return errorbank.NotFound("no laundry partner is available right now", errorbank.WithCause(err))
	case errors.Is(err, commands.ErrOrderNotFound), errors.Is(err, errs.ErrObjectNotFound):
		return errorbank.NotFound("order not found", errorbank.WithCause(err))
	case errors.Is(err, commands.ErrForbidden):
		return errorbank.Forbidden("you are not allowed to change this order", errorbank.WithCause(err))
	case errors.Is(err, order.ErrTransitionIsNotAllowed):
		return errorbank.Forbidden("this status change is not allowed", errorbank.WithCause(err))
	case errors.Is(err, order.ErrOrderIsCompleted):
		return errorbank.Conflict("order is already completed", errorbank.WithCause(err))
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return errorbank.Conflict("order was changed concurrently, please retry", errorbank.WithCause(err))
	case errors.Is(err, ports.ErrDuplicateOrderNumber):
		return errorbank.Conflict("order number is taken, please retry", errorbank.WithCause(err))
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorbank.BadRequest(err.Error(), errorbank.WithCause(err))
	default:
		return errorbank.From(err)
	}
}

func respondError(c echo.Context, logger *zap.Logger, err error) error {
	appErr := toAppError(err)
	status := appErr.StatusCode()

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	} else {
		logger.Debug("request rejected",
			zap.String("path", c.Path()),
			zap.String("kind", string(appErr.Kind())),
			zap.Error(err),
		)
	}

	return c.JSON(status, servers.Error{Code: status, Message: appErr.Message()})
}

// errorHandler renders whatever reaches echo, including routing and binding errors, in the
// API error shape.
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Code >= http.StatusInternalServerError {
				logger.Error("http request failed", zap.Error(err))
			}
			message := fmt.Sprint(httpErr.Message)
			if writeErr := c.JSON(httpErr.Code, servers.Error{Code: httpErr.Code, Message: message}); writeErr != nil {
				logger.Error("write error response", zap.Error(writeErr))
			}
			return
		}

		if writeErr := respondError(c, logger, err); writeErr != nil {
			logger.Error("write error response", zap.Error(writeErr))
		}
	}
}
