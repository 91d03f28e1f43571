package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"threadflow/internal/models"
)

// EnqueueReply records the pending reply in the Schedule sheet and
// schedules a delayed task to deliver it. The sheet row is the source
// of truth; the task only triggers the due sweep.
func (q *Queue) EnqueueReply(ctx context.Context, reply *models.PendingReply) error {
	if err := q.sr.Create(ctx, reply); err != nil {
		return err
	}

	if q.client == nil {
		return nil
	}

	payload, err := json.Marshal(AffiliateReplyPayload{
		AccountID:   reply.AccountID,
		ExecuteTime: reply.ExecuteTime,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeAffiliateReply, payload)

	delay := time.Until(reply.ExecuteTime)
	if delay < 0 {
		delay = 0
	}

	_, err = q.client.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	log.Printf("Reply scheduled for account %s at %s", reply.AccountID, reply.ExecuteTime.Format(time.RFC3339))
	return nil
}
