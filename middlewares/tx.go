package middlewares

import (
	"docchain-backend/database"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RequestTx opens a per-request DB transaction for mutating methods and
// commits or rolls it back when the handler chain returns. Link creation
// relies on this together with a locked source-row read
// (database.DocumentByIDForUpdate): the "no existing non-pending link"
// check and the write that records the new link happen as one serialized
// read-modify-write.
// Order: run AFTER Idempotency() so idempotency records aren't tied to the
// handler TX.
func RequestTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Error().Err(e).Msg("tx commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		c.Locals("tx", tx)
		err = c.Next()
		return err
	}
}

// RequestDB returns the per-request transaction when one is open, falling
// back to the shared connection for read-only requests.
func RequestDB(c *fiber.Ctx) *gorm.DB {
	if tx, ok := c.Locals("tx").(*gorm.DB); ok && tx != nil {
		return tx
	}
	return database.DB
}
