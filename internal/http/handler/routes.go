package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, reviews, applications service.SubmissionService, orphans service.OrphanService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	r := app.Group("/reviews")
	r.Post("/", SubmitReview(reviews))
	r.Get("/", ListParents(reviews))
	r.Get("/:id", GetParent(reviews))
	r.Delete("/:id", DeleteParent(reviews))
	r.Put("/:id/attachments", ReplaceReviewAttachments(reviews))

	a := app.Group("/applications")
	a.Post("/", SubmitApplication(applications))
	a.Get("/", ListParents(applications))
	a.Get("/:id", GetParent(applications))
	a.Delete("/:id", DeleteParent(applications))
	a.Put("/:id/attachments", ReplaceApplicationAttachments(applications))

	adm := app.Group("/admin/orphans")
	adm.Get("/", ListOrphans(orphans))
	adm.Post("/reconcile", ReconcileOrphans(orphans))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Checks database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a dependency-free liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
