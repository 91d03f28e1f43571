package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"threadflow/internal/models"
)

func (q *Queue) HandleReplyTask(ctx context.Context, task *asynq.Task) error {
	var payload AffiliateReplyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	_, err := q.ExecuteDueReplies(ctx)
	return err
}

// ExecuteDueReplies sweeps the Schedule sheet and delivers every reply
// whose execute time has passed. Replies are processed one at a time;
// a failing row is marked done with its error so it is not retried
// forever.
func (q *Queue) ExecuteDueReplies(ctx context.Context) (int, error) {
	due, err := q.sr.ListDue(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	var processed int
	for _, reply := range due {
		q.deliverReply(ctx, reply)
		processed++
	}
	return processed, nil
}

func (q *Queue) deliverReply(ctx context.Context, reply *models.PendingReply) {
	entry := &models.ActivityLog{
		Timestamp: time.Now(),
		Account:   reply.AccountID,
		Content:   reply.ContentID,
		Type:      "reply",
		Result:    models.LogResultFailure,
	}
	defer func() {
		if err := q.lr.AppendActivity(ctx, entry); err != nil {
			log.Printf("Error saving reply log for row %d: %v", reply.RowID, err)
		}
	}()

	account, err := q.ac.GetByID(ctx, reply.AccountID)
	if err != nil {
		entry.Detail = err.Error()
		return
	}
	if account == nil || account.AccessToken == "" {
		entry.Detail = "account missing or has no token"
		q.markDone(ctx, reply.RowID)
		return
	}
	entry.Account = account.Username

	affiliate, err := q.sel.SelectAffiliate(ctx, reply.ContentID, reply.AccountID)
	if err != nil {
		entry.Detail = err.Error()
		return
	}

	result := q.th.PostReply(ctx, account, affiliate, reply.ParentPostID)
	if !result.Success {
		log.Printf("Error posting reply for row %d: %s", reply.RowID, result.Error)
		entry.Detail = result.Error
		q.markDone(ctx, reply.RowID)
		return
	}

	entry.Result = models.LogResultSuccess
	entry.PostID = result.PostID
	q.markDone(ctx, reply.RowID)
}

func (q *Queue) markDone(ctx context.Context, rowID int) {
	if err := q.sr.MarkDone(ctx, rowID, time.Now()); err != nil {
		log.Printf("Error marking reply row %d done: %v", rowID, err)
	}
}
