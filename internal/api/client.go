// Package api is the client for the attendance backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyadi/absensi/internal/domain"
)

// TimeFormat is the timestamp layout the backend accepts for attendance
// updates.
const TimeFormat = "2006-01-02 15:04:05"

// TokenSource yields the bearer token attached to every request. An empty
// string sends no Authorization header.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.client = httpClient }
}

func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the backend's error envelope.
type apiError struct {
	ErrorMessage string `json:"errorMessage"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope apiError
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); decodeErr == nil && envelope.ErrorMessage != "" {
			return fmt.Errorf("%s %s: %s", method, path, envelope.ErrorMessage)
		}
		return fmt.Errorf("%s %s: backend returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// scheduleDTO is the backend wire shape for a schedule.
type scheduleDTO struct {
	ScheduleID          int64  `json:"scheduleId"`
	ScheduleName        string `json:"scheduleName"`
	ScheduleDescription string `json:"scheduleDescription"`
	ScheduleStoreID     int64  `json:"scheduleStoreId"`
	ScheduleUserID      int64  `json:"scheduleUserId"`
	ScheduleStartDate   string `json:"scheduleStartDate"`
	ScheduleEndDate     string `json:"scheduleEndDate"`
	ScheduleStatus      string `json:"scheduleStatus"`
}

func (d scheduleDTO) toDomain() (domain.Schedule, error) {
	start, err := parseBackendTime(d.ScheduleStartDate)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid scheduleStartDate: %w", err)
	}
	end, err := parseBackendTime(d.ScheduleEndDate)
	if err != nil {
		return domain.Schedule{}, fmt.Errorf("invalid scheduleEndDate: %w", err)
	}
	return domain.Schedule{
		ID:          d.ScheduleID,
		Name:        d.ScheduleName,
		Description: d.ScheduleDescription,
		StoreID:     d.ScheduleStoreID,
		UserID:      d.ScheduleUserID,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.Status(d.ScheduleStatus),
	}, nil
}

// parseBackendTime accepts both the ISO timestamps the backend serves and
// the plain layout it accepts on writes.
func parseBackendTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.ParseInLocation(TimeFormat, s, time.Local)
}

type storeDTO struct {
	StoreID        int64  `json:"storeId"`
	StoreName      string `json:"storeName"`
	StoreAddress   string `json:"storeAddress"`
	StoreLatitude  string `json:"storeLatitude"`
	StoreLongitude string `json:"storeLongitude"`
}

func (d storeDTO) toDomain() domain.Store {
	return domain.Store{
		ID:        d.StoreID,
		Name:      d.StoreName,
		Address:   d.StoreAddress,
		Latitude:  d.StoreLatitude,
		Longitude: d.StoreLongitude,
	}
}

// GetSchedule fetches one schedule/attendance detail.
func (c *Client) GetSchedule(ctx context.Context, id int64) (domain.Schedule, error) {
	var dto scheduleDTO
	if err := c.do(ctx, http.MethodGet, "/schedules/detail/"+strconv.FormatInt(id, 10), nil, &dto); err != nil {
		return domain.Schedule{}, err
	}
	return dto.toDomain()
}

// GetStore fetches one store detail.
func (c *Client) GetStore(ctx context.Context, id int64) (domain.Store, error) {
	var dto storeDTO
	if err := c.do(ctx, http.MethodGet, "/stores/detail/"+strconv.FormatInt(id, 10), nil, &dto); err != nil {
		return domain.Store{}, err
	}
	return dto.toDomain(), nil
}

// ListParams filter the paged schedule listing.
type ListParams struct {
	Page      int
	Size      int
	Search    string
	Status    domain.Status
	StatusNot domain.Status
}

// ListSchedules fetches a page of schedules with the list/history screens'
// filters.
func (c *Client) ListSchedules(ctx context.Context, params ListParams) ([]domain.Schedule, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("size", strconv.Itoa(params.Size))
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Status != "" {
		q.Set("scheduleStatus", string(params.Status))
	}
	if params.StatusNot != "" {
		q.Set("scheduleStatusNot", string(params.StatusNot))
	}

	var page struct {
		Items      []scheduleDTO `json:"items"`
		TotalItems int           `json:"totalItems"`
	}
	if err := c.do(ctx, http.MethodGet, "/schedules?"+q.Encode(), nil, &page); err != nil {
		return nil, 0, err
	}

	schedules := make([]domain.Schedule, 0, len(page.Items))
	for _, dto := range page.Items {
		s, err := dto.toDomain()
		if err != nil {
			return nil, 0, err
		}
		schedules = append(schedules, s)
	}
	return schedules, page.TotalItems, nil
}

// UpdateAttendanceRequest advances a schedule's attendance status. The
// backend decides the next state from the current one.
type UpdateAttendanceRequest struct {
	AttendanceID    int64  `json:"attendanceId"`
	AttendancePhoto string `json:"attendancePhoto"`
	AttendanceTime  string `json:"attendanceTime"`
}

// UpdateAttendance sends the check-in/check-out state transition.
func (c *Client) UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) error {
	return c.do(ctx, http.MethodPatch, "/attendances", req, nil)
}
