package timesheet

// Detail kinds inside a day bucket.
const (
	DetailKindPunch = "PUNCH"
	DetailKindLeave = "LEAVE"
)

type DayDetail struct {
	Kind    string  `json:"kind"`
	RefID   string  `json:"ref_id"`
	Label   string  `json:"label"`
	Hours   float64 `json:"hours"`
	TimeIn  *string `json:"time_in,omitempty"`
	TimeOut *string `json:"time_out,omitempty"`
	Open    bool    `json:"open,omitempty"`
}

type DayBucket struct {
	Date            string      `json:"date"`
	Weekday         string      `json:"weekday"`
	PunchHours      float64     `json:"punch_hours"`
	LeaveHours      float64     `json:"leave_hours"`
	TotalHours      float64     `json:"total_hours"`
	MultipleEntries bool        `json:"multiple_entries"`
	Details         []DayDetail `json:"details"`
}

type WeekBucket struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	TotalHours float64 `json:"total_hours"`
}

type OverlapConflict struct {
	PunchID      string `json:"punch_id"`
	OtherPunchID string `json:"other_punch_id"`
}

type GeofenceViolation struct {
	PunchID        string `json:"punch_id"`
	OutsideSamples int    `json:"outside_samples"`
}

type Anomalies struct {
	MissingClockOuts   []string            `json:"missing_clock_outs"`
	OverlapConflicts   []OverlapConflict   `json:"overlap_conflicts"`
	GeofenceViolations []GeofenceViolation `json:"geofence_violations"`
}

type TimesheetResponse struct {
	ApplicantID string       `json:"applicant_id"`
	Timezone    string       `json:"timezone"`
	StartDate   string       `json:"start_date"`
	EndDate     string       `json:"end_date"`
	Days        []DayBucket  `json:"days"`
	Weeks       []WeekBucket `json:"weeks"`
	TotalHours  float64      `json:"total_hours"`
	Anomalies   Anomalies    `json:"anomalies"`
}
