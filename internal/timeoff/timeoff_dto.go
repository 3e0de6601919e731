package timeoff

type CreateLeaveRequest struct {
	WorkerID    string  `json:"worker_id" binding:"required,uuid"`
	LeaveType   string  `json:"leave_type" binding:"required,oneof=PTO SICK UNPAID BEREAVEMENT JURY_DUTY"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date" binding:"required"`
	HoursPerDay float64 `json:"hours_per_day"`
	Reason      string  `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	WorkerID        string  `json:"worker_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	HoursPerDay     float64 `json:"hours_per_day"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}
