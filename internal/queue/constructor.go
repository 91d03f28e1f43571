package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"threadflow/internal/repository"
	"threadflow/internal/service"
)

type Queue struct {
	client *asynq.Client
	sr     repository.ScheduleRepository
	lr     repository.LogRepository
	ac     service.AccountService
	sel    service.SelectionService
	th     service.ThreadsService
}

func NewQueue(
	client *asynq.Client,
	sr repository.ScheduleRepository,
	lr repository.LogRepository,
	ac service.AccountService,
	sel service.SelectionService,
	th service.ThreadsService) *Queue {
	return &Queue{
		client: client,
		sr:     sr,
		lr:     lr,
		ac:     ac,
		sel:    sel,
		th:     th,
	}
}

const TaskTypeAffiliateReply = "affiliate:reply"

type AffiliateReplyPayload struct {
	AccountID   string    `json:"account_id"`
	ExecuteTime time.Time `json:"execute_time"`
}
