package domain

import "time"

// Status is the attendance lifecycle state of a scheduled store visit.
// Transitions waiting -> checkin -> checkout happen exclusively through
// the check-in flow; the backend decides the next state.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusCheckin  Status = "checkin"
	StatusCheckout Status = "checkout"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusCheckin, StatusCheckout:
		return true
	}
	return false
}

// Next returns the state the backend will advance to on a successful
// submission. Checkout is terminal.
func (s Status) Next() Status {
	switch s {
	case StatusWaiting:
		return StatusCheckin
	case StatusCheckin:
		return StatusCheckout
	}
	return s
}

// Role mirrors the backend's user roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleSpg        Role = "spg"
)

// Schedule is one planned store visit for an SPG user.
type Schedule struct {
	ID          int64
	Name        string
	Description string
	StoreID     int64
	UserID      int64
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
}

// Store is a physical store location. Latitude and Longitude are kept as
// the decimal-degree strings the backend serves; parse with geo.ParsePoint.
type Store struct {
	ID        int64
	Name      string
	Address   string
	Latitude  string
	Longitude string
}

// GeoPosition is an ephemeral device location sample. Never persisted.
type GeoPosition struct {
	Latitude  float64
	Longitude float64
	SampledAt time.Time
}

// CapturedPhoto holds the serialized camera frame in memory until the
// upload hands ownership to remote storage.
type CapturedPhoto struct {
	Data       []byte
	MimeType   string
	CapturedAt time.Time
}

// User is the profile attached to the auth token.
type User struct {
	ID       int64
	Name     string
	Email    string
	Role     Role
	DeviceID string
	Contact  string
}
