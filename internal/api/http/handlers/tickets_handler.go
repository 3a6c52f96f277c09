package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrisupport/complaint-service/internal/api/dto"
	"github.com/agrisupport/complaint-service/internal/auth"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/service"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// TicketsHandler manages complaint endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		FarmerID:    req.FarmerID,
		EquipmentID: req.EquipmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.service.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.UserContext(), actor, ticketID)
	if err != nil {
		return err
	}
	logs, err := h.service.ListCallLogs(c.UserContext(), actor, ticketID, 50, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, logs)})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Status) == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), actor, ticketID, domain.StatusName(req.Status), req.Remarks)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Assign POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == 0 {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	ticket, err := h.service.Assign(c.UserContext(), actor, ticketID, req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	if req.Status != nil {
		status := domain.StatusName(*req.Status)
		input.Status = &status
	}
	ticket, err := h.service.Update(c.UserContext(), actor, ticketID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// RecordCallLog POST /tickets/:id/calls.
func (h *TicketsHandler) RecordCallLog(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.RecordCallLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Outcome) == "" {
		return apperrors.NewValidationError("outcome required", nil)
	}
	log, err := h.service.RecordCallLog(c.UserContext(), actor, ticketID, service.CallLogInput{
		Outcome:          domain.OutcomeName(req.Outcome),
		DurationSeconds:  req.DurationSeconds,
		Remarks:          req.Remarks,
		NextFollowUpDate: req.NextFollowUpDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": callLogResponse(log)})
}

// ListCallLogs GET /tickets/:id/calls.
func (h *TicketsHandler) ListCallLogs(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("staff required")
	}
	ticketID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := clampPageSize(parseInt(c.Query("page_size"), 50))
	logs, err := h.service.ListCallLogs(c.UserContext(), actor, ticketID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CallLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, callLogResponse(&logs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{ActiveOnly: true}
	if zone := parseOptionalID(c.Query("zone_id")); zone != nil {
		filter.ZoneID = zone
	}
	if branch := parseOptionalID(c.Query("branch_id")); branch != nil {
		filter.BranchID = branch
	}
	if line := parseOptionalID(c.Query("line_id")); line != nil {
		filter.LineID = line
	}
	if farmer := parseOptionalID(c.Query("farmer_id")); farmer != nil {
		filter.FarmerID = farmer
	}
	if assignee := parseOptionalID(c.Query("assigned_to")); assignee != nil {
		filter.AssignedTo = assignee
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.StatusNames = append(filter.StatusNames, domain.StatusName(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := clampPageSize(parseInt(c.Query("page_size"), 20))
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

// maxPageSize bounds a single listing query the way the stats window
// bounds aggregation; callers cannot request arbitrarily large pages.
const maxPageSize = 100

func clampPageSize(size int) int {
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func parseOptionalID(val string) *int64 {
	if val == "" {
		return nil
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Title:        ticket.Title,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		Status:       string(ticket.Status.Name),
		FarmerID:     ticket.FarmerID,
		AssignedTo:   ticket.AssignedTo,
		ZoneID:       ticket.ZoneID,
		BranchID:     ticket.BranchID,
		LineID:       ticket.LineID,
		SLADeadline:  ticket.SLADeadline,
		CreatedAt:    ticket.CreatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, logs []domain.CallLog) dto.TicketDetailResponse {
	items := make([]dto.CallLogResponse, 0, len(logs))
	for i := range logs {
		items = append(items, callLogResponse(&logs[i]))
	}
	return dto.TicketDetailResponse{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		Status:       string(ticket.Status.Name),
		FarmerID:     ticket.FarmerID,
		EquipmentID:  ticket.EquipmentID,
		AssignedTo:   ticket.AssignedTo,
		ZoneID:       ticket.ZoneID,
		BranchID:     ticket.BranchID,
		LineID:       ticket.LineID,
		SLADeadline:  ticket.SLADeadline,
		ResolvedAt:   ticket.ResolvedAt,
		ClosedAt:     ticket.ClosedAt,
		CreatedBy:    ticket.CreatedBy,
		IsActive:     ticket.IsActive,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
		CallLogs:     items,
	}
}

func callLogResponse(log *domain.CallLog) dto.CallLogResponse {
	return dto.CallLogResponse{
		ID:                  log.ID,
		CalledBy:            log.CalledBy,
		Outcome:             string(log.Outcome.Name),
		DurationSeconds:     log.DurationSeconds,
		Remarks:             log.Remarks,
		NextFollowUpDate:    log.NextFollowUpDate,
		ResultingStatusID:   log.ResultingStatusID,
		ResultingStatusDate: log.ResultingStatusDate,
		CreatedAt:           log.CreatedAt,
	}
}
