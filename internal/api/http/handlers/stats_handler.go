package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/service"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// StatsHandler serves the reporting endpoints.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Stats GET /reports/stats.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	stats, err := h.service.Stats(c.UserContext(), actor, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// SlaCompliance GET /reports/sla-compliance.
func (h *StatsHandler) SlaCompliance(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	rows, err := h.service.SlaComplianceByPriority(c.UserContext(), actor, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// MTTR GET /reports/mttr.
func (h *StatsHandler) MTTR(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	groupBy := service.MTTRGroupBy(c.Query("group_by", string(service.MTTRByZone)))
	entries, err := h.service.MeanTimeToResolution(c.UserContext(), actor, groupBy, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
