package middleware

import (
	"time"

	"subercraftex/logger"
	"subercraftex/types"
	"subercraftex/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// RequestLogger hands every request/response pair to the async logger.
// Authorization headers are never captured.
func RequestLogger(sink *logger.AsyncLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := types.LogEntry{
			Method:       fiberutils.CopyString(c.Method()),
			URL:          fiberutils.CopyString(c.OriginalURL()),
			RequestBody:  utils.SanitizeBody(c.Get(fiber.HeaderContentType), c.Body()),
			ResponseBody: utils.SanitizeBody(string(c.Response().Header.ContentType()), c.Response().Body()),
			ActorID:      fiberutils.CopyString(GetActor(c).ID),
			StatusCode:   c.Response().StatusCode(),
			LatencyMs:    time.Since(start).Milliseconds(),
			CreatedAt:    start,
		}
		sink.Log(entry)
		return err
	}
}
