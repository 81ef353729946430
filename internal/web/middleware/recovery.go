package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	"github.com/a3tai/pcp-change-form/internal/changeform"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const stackSize = 4096

// Recovery turns a handler panic into the fixed form-generation failure
// message so callers see the same body as any other fill failure. The panic
// value and stack only go to the log.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	logger = logger.With().Str("component", "http").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]

				rid, _ := c.Get(RequestIDKey).(string)
				logger.Error().
					Str("request_id", rid).
					Str("route", c.Path()).
					Str("method", c.Request().Method).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", stack).
					Msg("panic recovered")

				if c.Response().Committed {
					err = echo.NewHTTPError(http.StatusInternalServerError, changeform.MsgFillFailed)
					return
				}
				err = c.JSON(http.StatusInternalServerError, map[string]string{"error": changeform.MsgFillFailed})
			}()
			return next(c)
		}
	}
}
