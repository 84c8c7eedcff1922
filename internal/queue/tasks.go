package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartCheckedOut is published after a checkout commits.
	TaskCartCheckedOut = "cart:checked_out"

	DefaultQueue = "default"
)

// CartCheckedOutPayload identifies the cart that was paid.
type CartCheckedOutPayload struct {
	CartID   int64  `json:"cart_id"`
	Customer string `json:"customer"`
}

func NewCartCheckedOutTask(payload CartCheckedOutPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartCheckedOut, body), nil
}

// ParseCartCheckedOut decodes the task payload.
func ParseCartCheckedOut(task *asynq.Task) (CartCheckedOutPayload, error) {
	var payload CartCheckedOutPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", TaskCartCheckedOut, err)
	}
	return payload, nil
}
