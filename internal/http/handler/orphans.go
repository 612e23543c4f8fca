package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/service"
)

func orphanLimit(c *fiber.Ctx) (int, error) {
	return strconv.Atoi(c.Query("limit", strconv.Itoa(defaultOrphanPage)))
}

// ListOrphans godoc
// @Summary List objects that survived every deletion strategy
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum rows" default(100)
// @Success 200 {object} map[string]any
// @Router /admin/orphans [get]
func ListOrphans(svc service.OrphanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := orphanLimit(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		items, err := svc.List(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// ReconcileOrphans godoc
// @Summary Retry deletion of dead-lettered objects
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum rows" default(100)
// @Success 200 {object} service.ReconcileResult
// @Router /admin/orphans/reconcile [post]
func ReconcileOrphans(svc service.OrphanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := orphanLimit(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		res, err := svc.Reconcile(c.UserContext(), limit)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
