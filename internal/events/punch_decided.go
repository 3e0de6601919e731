package events

import "time"

const PunchDecidedTopic = "tc.punch.lifecycle.v1"

const (
	PunchApprovedEvent = "punch.approved"
	PunchRejectedEvent = "punch.rejected"
)

// PunchDecidedEvent is published through the outbox whenever a manager
// approves or rejects a punch. The notification service downstream owns
// delivery.
type PunchDecidedEvent struct {
	EventType   string    `json:"event_type"`
	PunchID     string    `json:"punch_id"`
	CompanyID   string    `json:"company_id"`
	WorkerID    string    `json:"worker_id"`
	JobID       string    `json:"job_id"`
	ManagerID   string    `json:"manager_id"`
	PaidHours   *float64  `json:"paid_hours,omitempty"`
	ManagerNote *string   `json:"manager_note,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
