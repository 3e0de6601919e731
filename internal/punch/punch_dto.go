package punch

import (
	"time"

	"go-timeclock/internal/geo"
)

type ClockInRequest struct {
	JobID     string   `json:"job_id" binding:"required,uuid"`
	ShiftSlug *string  `json:"shift_slug"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AccuracyM float64  `json:"accuracy_m"`
	UserNote  *string  `json:"user_note"`
}

type ClockOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AccuracyM float64  `json:"accuracy_m"`
	UserNote  *string  `json:"user_note"`
}

type LocationPingRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	AccuracyM float64 `json:"accuracy_m"`
}

type EditPunchRequest struct {
	TimeIn  string  `json:"time_in" binding:"required"`
	TimeOut *string `json:"time_out"`
}

type DecisionRequest struct {
	ManagerNote *string `json:"manager_note"`
}

type LocationSampleResponse struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyM      float64 `json:"accuracy_m"`
	Status         string  `json:"status"`
	WithinGeofence *bool   `json:"within_geofence,omitempty"`
	DistanceMeters float64 `json:"distance_meters"`
	RecordedAt     string  `json:"recorded_at"`
}

type PunchResponse struct {
	ID                 string                   `json:"id"`
	CompanyID          string                   `json:"company_id"`
	WorkerID           string                   `json:"worker_id"`
	ApplicantID        string                   `json:"applicant_id"`
	JobID              string                   `json:"job_id"`
	ShiftSlug          *string                  `json:"shift_slug,omitempty"`
	TimeIn             string                   `json:"time_in"`
	TimeOut            *string                  `json:"time_out,omitempty"`
	Status             string                   `json:"status"`
	ElapsedHours       float64                  `json:"elapsed_hours"`
	LocationSamples    []LocationSampleResponse `json:"location_samples,omitempty"`
	UserNote           *string                  `json:"user_note,omitempty"`
	ManagerNote        *string                  `json:"manager_note,omitempty"`
	ApprovingManagerID *string                  `json:"approving_manager_id,omitempty"`
	PaidHours          *float64                 `json:"paid_hours,omitempty"`
}

// LocationPingResponse reports the classification outcome of one ping.
// Recorded is false when the job has no location feature enabled: the ping
// is acknowledged, not stored, and not an error.
type LocationPingResponse struct {
	Recorded       bool    `json:"recorded"`
	Status         string  `json:"status,omitempty"`
	WithinGeofence *bool   `json:"within_geofence,omitempty"`
	DistanceMeters float64 `json:"distance_meters,omitempty"`
}

func mapSampleToResponse(s LocationSample) LocationSampleResponse {
	return LocationSampleResponse{
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		AccuracyM:      s.AccuracyM,
		Status:         string(s.Status),
		WithinGeofence: s.WithinGeofence,
		DistanceMeters: s.DistanceMeters,
		RecordedAt:     s.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func mapToResponse(p Punch, now time.Time) PunchResponse {
	resp := PunchResponse{
		ID:           p.ID.String(),
		CompanyID:    p.CompanyID.String(),
		WorkerID:     p.WorkerID.String(),
		ApplicantID:  p.ApplicantID.String(),
		JobID:        p.JobID.String(),
		ShiftSlug:    p.ShiftSlug,
		TimeIn:       p.TimeIn.UTC().Format(time.RFC3339),
		Status:       p.Status,
		ElapsedHours: RoundHours(p.ElapsedHours(now)),
		UserNote:     p.UserNote,
		ManagerNote:  p.ManagerNote,
		PaidHours:    p.PaidHours,
	}
	if p.TimeOut != nil {
		v := p.TimeOut.UTC().Format(time.RFC3339)
		resp.TimeOut = &v
	}
	if p.ApprovingManagerID != nil {
		v := p.ApprovingManagerID.String()
		resp.ApprovingManagerID = &v
	}
	for _, s := range p.LocationSamples {
		resp.LocationSamples = append(resp.LocationSamples, mapSampleToResponse(s))
	}
	return resp
}

func pingResponse(c geo.Classification) LocationPingResponse {
	return LocationPingResponse{
		Recorded:       true,
		Status:         string(c.Status),
		WithinGeofence: c.WithinGeofence(),
		DistanceMeters: c.DistanceMeters,
	}
}
