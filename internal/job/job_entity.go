package job

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-timeclock/internal/geo"
)

type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	VenueID   *uuid.UUID `gorm:"type:uuid;index"`

	Title string `gorm:"type:varchar(120);not null"`

	// Anchor point for the geofence. Zero lat/long means the job carries
	// no anchor of its own and falls back to the venue coordinates.
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`

	VenueLatitude  float64 `gorm:"column:venue_latitude"`
	VenueLongitude float64 `gorm:"column:venue_longitude"`

	GeofenceRadiusM float64 `gorm:"column:geofence_radius_m;not null;default:0"`
	GraceDistanceFt float64 `gorm:"column:grace_distance_ft;not null;default:0"`

	GeofenceEnabled      bool `gorm:"column:geofence_enabled;not null;default:false"`
	AutoClockoutShiftEnd bool `gorm:"column:auto_clockout_shift_end;not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Job) TableName() string {
	return "jobs"
}

// AnchorCoordinates returns the geofence anchor, preferring the job's own
// coordinates and falling back to the venue's. The zero value means no
// anchor is configured at all.
func (j Job) AnchorCoordinates() geo.Coordinates {
	own := geo.Coordinates{Latitude: j.Latitude, Longitude: j.Longitude}
	if !own.IsZero() {
		return own
	}
	return geo.Coordinates{Latitude: j.VenueLatitude, Longitude: j.VenueLongitude}
}

// TracksLocation reports whether any location-dependent feature is on for
// this job. Location pings on jobs without these flags are a documented
// no-op.
func (j Job) TracksLocation() bool {
	return j.GeofenceEnabled || j.AutoClockoutShiftEnd
}
