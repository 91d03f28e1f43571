package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	job "threadflow/internal/jobs"
	"threadflow/internal/queue"
	"threadflow/internal/service"
	"threadflow/internal/transfer"
)

type AdminHandler struct {
	accounts  service.AccountService
	selection service.SelectionService
	autopost  service.AutopostService
	status    service.StatusService
	sweep     *queue.Queue
	schedJob  *job.ScheduledPostJob
}

func NewAdminHandler(
	accounts service.AccountService,
	selection service.SelectionService,
	autopost service.AutopostService,
	status service.StatusService,
	sweep *queue.Queue,
	schedJob *job.ScheduledPostJob) *AdminHandler {
	return &AdminHandler{
		accounts:  accounts,
		selection: selection,
		autopost:  autopost,
		status:    status,
		sweep:     sweep,
		schedJob:  schedJob,
	}
}

func (h *AdminHandler) Health(c *fiber.Ctx) error {
	return jsonOK(c, fiber.Map{"status": "ok"}, "")
}

func (h *AdminHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.status.BuildStatus(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err, "Unable to build status")
	}
	return jsonOK(c, status, "")
}

// TriggerBatch posts for every active account with inline replies.
func (h *AdminHandler) TriggerBatch(c *fiber.Ctx) error {
	result := h.autopost.RunBatch(c.Context())
	return jsonOK(c, result, "Batch finished")
}

// TriggerSingle posts for one randomly chosen active account.
func (h *AdminHandler) TriggerSingle(c *fiber.Ctx) error {
	result, err := h.autopost.RunSingleAccount(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to run single account")
	}
	return jsonOK(c, result, "Run finished")
}

// TriggerReplySweep delivers every pending reply that is due.
func (h *AdminHandler) TriggerReplySweep(c *fiber.Ctx) error {
	processed, err := h.sweep.ExecuteDueReplies(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, err, "Unable to process pending replies")
	}
	return jsonOK(c, fiber.Map{"processed": processed}, "Sweep finished")
}

// TriggerScheduleCheck runs the same check the minute tick runs.
func (h *AdminHandler) TriggerScheduleCheck(c *fiber.Ctx) error {
	status := h.schedJob.CheckAndRun()
	return jsonOK(c, fiber.Map{"result": status}, "")
}

func (h *AdminHandler) SetToken(c *fiber.Ctx) error {
	var req transfer.SetTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to parse json")
	}

	if err := h.accounts.SetToken(c.Context(), req.AccountID, req.AccessToken); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to store token")
	}
	return jsonOK(c, nil, "Token stored")
}

func (h *AdminHandler) RemoveToken(c *fiber.Ctx) error {
	accountID := c.Query("account_id")
	if accountID == "" {
		return jsonError(c, fiber.StatusBadRequest, errors.New("account_id is required"), "Unable to remove token")
	}

	if err := h.accounts.RemoveToken(c.Context(), accountID); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to remove token")
	}
	return jsonOK(c, nil, "Token removed")
}

func (h *AdminHandler) ClearHistory(c *fiber.Ctx) error {
	var req transfer.ClearHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to parse json")
	}
	if req.AccountID == "" {
		return jsonError(c, fiber.StatusBadRequest, errors.New("account_id is required"), "Unable to clear history")
	}

	var err error
	if req.ContentID != "" {
		err = h.selection.ClearAffiliateHistory(c.Context(), req.AccountID, req.ContentID)
	} else {
		err = h.selection.ClearContentHistory(c.Context(), req.AccountID)
	}
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err, "Unable to clear history")
	}
	return jsonOK(c, nil, "History cleared")
}
