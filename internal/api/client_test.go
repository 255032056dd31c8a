package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetyadi/absensi/internal/domain"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func TestGetScheduleParsesWireModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules/detail/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"scheduleId":        42,
			"scheduleName":      "Morning shift",
			"scheduleStoreId":   7,
			"scheduleUserId":    3,
			"scheduleStartDate": "2026-08-29T09:00:00+07:00",
			"scheduleEndDate":   "2026-08-29T17:00:00+07:00",
			"scheduleStatus":    "waiting",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))

	schedule, err := c.GetSchedule(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), schedule.ID)
	assert.Equal(t, "Morning shift", schedule.Name)
	assert.Equal(t, domain.StatusWaiting, schedule.Status)

	wantStart, err := time.Parse(time.RFC3339, "2026-08-29T09:00:00+07:00")
	require.NoError(t, err)
	assert.True(t, schedule.StartDate.Equal(wantStart))
}

func TestGetStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores/detail/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"storeId":        7,
			"storeName":      "Toko Sinar Jaya",
			"storeAddress":   "Jl. Sudirman 1",
			"storeLatitude":  "-6.1754",
			"storeLongitude": "106.8272",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken(""))

	store, err := c.GetStore(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Toko Sinar Jaya", store.Name)
	assert.Equal(t, "-6.1754", store.Latitude)
}

func TestListSchedulesSendsFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("page"))
		assert.Equal(t, "50", q.Get("size"))
		assert.Equal(t, "sinar", q.Get("search"))
		assert.Equal(t, "checkout", q.Get("scheduleStatusNot"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{
				"scheduleId":        1,
				"scheduleStartDate": "2026-08-29 09:00:00",
				"scheduleEndDate":   "2026-08-29 17:00:00",
				"scheduleStatus":    "checkin",
			}},
			"totalItems": 1,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))

	schedules, total, err := c.ListSchedules(context.Background(), ListParams{
		Page: 0, Size: 50, Search: "sinar", StatusNot: domain.StatusCheckout,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, schedules, 1)
	assert.Equal(t, domain.StatusCheckin, schedules[0].Status)
}

func TestUpdateAttendancePatchesBackend(t *testing.T) {
	var got UpdateAttendanceRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/attendances", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))

	err := c.UpdateAttendance(context.Background(), UpdateAttendanceRequest{
		AttendanceID:    42,
		AttendancePhoto: "https://storage.example/photo.jpg",
		AttendanceTime:  "2026-08-29 09:05:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.AttendanceID)
	assert.Equal(t, "2026-08-29 09:05:00", got.AttendanceTime)
}

func TestBackendErrorEnvelopeSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"errorMessage": "schedule already checked out"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))

	err := c.UpdateAttendance(context.Background(), UpdateAttendanceRequest{AttendanceID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule already checked out")
}
