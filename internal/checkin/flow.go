// Package checkin orchestrates the geofenced attendance flow: open the
// camera, capture a photo, upload it, and advance the schedule's status on
// the backend.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prasetyadi/absensi/internal/api"
	"github.com/prasetyadi/absensi/internal/appstate"
	"github.com/prasetyadi/absensi/internal/camera"
	"github.com/prasetyadi/absensi/internal/domain"
	"github.com/prasetyadi/absensi/internal/photostore"
)

// State of the flow. The late confirmation is an explicit state rather
// than a blocking prompt.
type State string

const (
	StateIdle                     State = "idle"
	StateCameraOpen               State = "cameraOpen"
	StatePhotoReady               State = "photoReady"
	StateAwaitingLateConfirmation State = "awaitingLateConfirmation"
	StateSubmitting               State = "submitting"
	StateDone                     State = "done"
)

// Local validation failures. They block submission before any network call.
var (
	ErrNoPhoto      = errors.New("no photo captured")
	ErrOutOfRange   = errors.New("not within range of the store")
	ErrWrongDay     = errors.New("schedule is not for today")
	ErrLateDeclined = errors.New("late check-in not confirmed")
	ErrInvalidState = errors.New("operation not allowed in current state")
)

// Confirmer asks the user to confirm a late arrival. Declining stops the
// submission.
type Confirmer interface {
	ConfirmLate(ctx context.Context, lateness time.Duration) (bool, error)
}

// attendanceUpdater is the subset of api.Client the flow needs.
type attendanceUpdater interface {
	UpdateAttendance(ctx context.Context, req api.UpdateAttendanceRequest) error
}

// rangeChecker is the subset of location.Evaluator the flow needs.
type rangeChecker interface {
	WithinRange() bool
}

// uiState is the subset of appstate.Store the flow needs.
type uiState interface {
	SetAlert(appstate.Alert)
	SetLoading(bool)
}

// Config carries the flow's collaborators and tunables.
type Config struct {
	Schedule domain.Schedule
	Store    domain.Store

	Camera   camera.Provider
	Photos   photostore.PhotoStore
	Backend  attendanceUpdater
	Geofence rangeChecker
	Confirm  Confirmer
	UI       uiState
	Logger   *slog.Logger

	// PhotoFolder is the object-storage prefix; empty means
	// photostore.DefaultFolder.
	PhotoFolder string
	// JPEGQuality for the captured frame; 0 means camera.DefaultJPEGQuality.
	JPEGQuality int
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Result describes a successful submission.
type Result struct {
	// Action is "checked in" or "checked out", derived from the
	// pre-submission status.
	Action      string
	SubmittedAt time.Time
	PhotoURL    string
	Late        bool
	Lateness    time.Duration
}

// Flow is one check-in screen instance. One submission may be in flight at
// a time; all guards are local and no step is retried automatically.
type Flow struct {
	cfg Config
	now func() time.Time

	mu     sync.Mutex
	state  State
	stream camera.Stream
	photo  *domain.CapturedPhoto
}

func NewFlow(cfg Config) *Flow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Flow{cfg: cfg, now: now, state: StateIdle}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Photo returns the captured photo, nil before capture.
func (f *Flow) Photo() *domain.CapturedPhoto {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.photo
}

// OpenCamera acquires the camera stream. On denial or error the flow
// stays idle and the user must re-trigger.
func (f *Flow) OpenCamera(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return fmt.Errorf("%w: open camera from %s", ErrInvalidState, f.state)
	}
	f.mu.Unlock()

	stream, err := f.cfg.Camera.Open(ctx)
	if err != nil {
		f.cfg.Logger.Warn("camera open failed", "error", err)
		f.alertError("Unable to access the camera. Please allow camera access and try again.")
		return err
	}

	f.mu.Lock()
	f.stream = stream
	f.state = StateCameraOpen
	f.mu.Unlock()
	return nil
}

// Capture snapshots the current frame as a JPEG and releases the camera.
// On a frame error the camera stays open so the user may try again or
// cancel.
func (f *Flow) Capture(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateCameraOpen || f.stream == nil {
		f.mu.Unlock()
		return fmt.Errorf("%w: capture from %s", ErrInvalidState, f.state)
	}
	stream := f.stream
	f.mu.Unlock()

	photo, err := camera.Capture(ctx, stream, f.cfg.JPEGQuality)
	if err != nil {
		f.cfg.Logger.Warn("capture failed", "error", err)
		f.alertError("Failed to capture photo. Please try again.")
		return err
	}

	f.mu.Lock()
	f.stream = nil // released by Capture
	f.photo = photo
	f.state = StatePhotoReady
	f.mu.Unlock()
	return nil
}

// Retake discards the captured photo and reopens the camera.
func (f *Flow) Retake(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StatePhotoReady {
		f.mu.Unlock()
		return fmt.Errorf("%w: retake from %s", ErrInvalidState, f.state)
	}
	f.photo = nil
	f.state = StateIdle
	f.mu.Unlock()

	return f.OpenCamera(ctx)
}

// Cancel closes the camera without capturing.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stream != nil {
		f.stream.Stop()
		f.stream = nil
	}
	if f.state == StateCameraOpen {
		f.state = StateIdle
	}
}

// Close releases the camera on teardown. Safe to call in any state, any
// number of times.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stream != nil {
		f.stream.Stop()
		f.stream = nil
	}
}

// Submit runs the guarded submission: local validations, the late-arrival
// confirmation, the photo upload, then the status transition. The upload
// must resolve a URL before the backend call; a failure in either leaves
// the photo intact for a retry.
func (f *Flow) Submit(ctx context.Context) (*Result, error) {
	f.mu.Lock()
	if f.state != StatePhotoReady {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: submit from %s", ErrInvalidState, f.state)
	}
	photo := f.photo
	f.mu.Unlock()

	if photo == nil {
		f.alertError("Take a photo before submitting.")
		return nil, ErrNoPhoto
	}
	if !f.cfg.Geofence.WithinRange() {
		f.alertError("You must be within range of the store to submit attendance.")
		return nil, ErrOutOfRange
	}

	now := f.now()
	status := f.cfg.Schedule.Status

	var late bool
	var lateness time.Duration
	if status == domain.StatusWaiting {
		start := f.cfg.Schedule.StartDate.In(now.Location())
		if !sameCalendarDay(now, start) {
			msg := fmt.Sprintf("Today is %s but this schedule starts on %s.",
				now.Format("2006-01-02"), start.Format("2006-01-02"))
			f.alertError(msg)
			return nil, fmt.Errorf("%w: %s", ErrWrongDay, msg)
		}

		if now.After(start) {
			lateness = now.Sub(start)
			late = true

			f.setState(StateAwaitingLateConfirmation)
			ok, err := f.cfg.Confirm.ConfirmLate(ctx, lateness)
			if err != nil {
				f.setState(StatePhotoReady)
				return nil, fmt.Errorf("late confirmation failed: %w", err)
			}
			if !ok {
				f.setState(StatePhotoReady)
				return nil, ErrLateDeclined
			}
		}
	}

	f.setState(StateSubmitting)
	f.cfg.UI.SetLoading(true)
	defer f.cfg.UI.SetLoading(false)

	name := photostore.ObjectName(f.cfg.PhotoFolder, photo.CapturedAt)
	photoURL, err := f.cfg.Photos.Upload(ctx, name, photo.MimeType, photo.Data)
	if err != nil {
		f.cfg.Logger.Error("photo upload failed", "schedule_id", f.cfg.Schedule.ID, "error", err)
		f.setState(StatePhotoReady)
		f.alertError("Failed to submit attendance. Please try again.")
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	timestamp := now.Format(api.TimeFormat)
	err = f.cfg.Backend.UpdateAttendance(ctx, api.UpdateAttendanceRequest{
		AttendanceID:    f.cfg.Schedule.ID,
		AttendancePhoto: photoURL,
		AttendanceTime:  timestamp,
	})
	if err != nil {
		f.cfg.Logger.Error("attendance update failed", "schedule_id", f.cfg.Schedule.ID, "error", err)
		f.setState(StatePhotoReady)
		f.alertError("Failed to submit attendance. Please try again.")
		return nil, fmt.Errorf("attendance update failed: %w", err)
	}

	// The label comes from the status before this submission advanced it.
	action := "checked in"
	if status == domain.StatusCheckin {
		action = "checked out"
	}

	f.cfg.UI.SetAlert(appstate.Alert{
		Message: fmt.Sprintf("Successfully %s at %s", action, timestamp),
		Kind:    appstate.AlertSuccess,
	})
	if late {
		h, m := splitLateness(lateness)
		f.cfg.UI.SetAlert(appstate.Alert{
			Message: fmt.Sprintf("You are %dh %dm late for this schedule.", h, m),
			Kind:    appstate.AlertWarning,
		})
	}

	f.setState(StateDone)
	f.cfg.Logger.Info("attendance submitted",
		"schedule_id", f.cfg.Schedule.ID, "store", f.cfg.Store.Name,
		"action", action, "late", late, "photo_url", photoURL)

	return &Result{
		Action:      action,
		SubmittedAt: now,
		PhotoURL:    photoURL,
		Late:        late,
		Lateness:    lateness,
	}, nil
}

func (f *Flow) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Flow) alertError(msg string) {
	f.cfg.UI.SetAlert(appstate.Alert{Message: msg, Kind: appstate.AlertError})
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func splitLateness(d time.Duration) (hours, minutes int) {
	hours = int(d.Hours())
	minutes = int(d.Minutes()) % 60
	return hours, minutes
}
