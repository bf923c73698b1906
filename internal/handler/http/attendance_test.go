package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapvera/hr-backend-go/internal/domain/attendance"
	"github.com/tapvera/hr-backend-go/internal/pkg/jwt"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
)

// fakeAttendanceService records calls and replays canned results.
type fakeAttendanceService struct {
	punchErr    error
	lastPunch   attendance.PunchRequest
	lastManual  attendance.ManualPunchRequest
	recalcUser  string
	recalcDate  string
	snapshot    attendance.SnapshotResponse
	summaryResp attendance.PeriodSummaryResponse
}

func (f *fakeAttendanceService) Punch(ctx context.Context, req attendance.PunchRequest) (attendance.SnapshotResponse, error) {
	f.lastPunch = req
	if f.punchErr != nil {
		return attendance.SnapshotResponse{}, f.punchErr
	}
	return f.snapshot, nil
}

func (f *fakeAttendanceService) ManualPunch(ctx context.Context, req attendance.ManualPunchRequest) (attendance.SnapshotResponse, error) {
	f.lastManual = req
	return f.snapshot, nil
}

func (f *fakeAttendanceService) Today(ctx context.Context) (attendance.SnapshotResponse, error) {
	return f.snapshot, nil
}

func (f *fakeAttendanceService) Recalculate(ctx context.Context, employeeID string, date string) (attendance.SnapshotResponse, error) {
	f.recalcUser = employeeID
	f.recalcDate = date
	return f.snapshot, nil
}

func (f *fakeAttendanceService) Get(ctx context.Context, employeeID string, date string) (attendance.SnapshotResponse, error) {
	return attendance.SnapshotResponse{}, attendance.ErrSnapshotNotFound
}

func (f *fakeAttendanceService) Delete(ctx context.Context, employeeID string, date string) error {
	return nil
}

func (f *fakeAttendanceService) PeriodSummary(ctx context.Context, employeeID string, startDate, endDate string) (attendance.PeriodSummaryResponse, error) {
	return f.summaryResp, nil
}

func (f *fakeAttendanceService) MyPeriodSummary(ctx context.Context, startDate, endDate string) (attendance.PeriodSummaryResponse, error) {
	return f.summaryResp, nil
}

var _ attendance.Service = (*fakeAttendanceService)(nil)

func newTestRouter(svc attendance.Service) (http.Handler, jwt.Service) {
	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	handler := NewAttendanceHandler(svc)
	return NewRouter(jwtSvc, handler), jwtSvc
}

func accessToken(t *testing.T, jwtSvc jwt.Service, employeeID string, isAdmin bool) string {
	t.Helper()
	token, _, err := jwtSvc.GenerateAccessToken(employeeID, employeeID+"@example.com", isAdmin)
	require.NoError(t, err)
	return token
}

func doRequest(router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAttendanceHandler_Punch_Success(t *testing.T) {
	svc := &fakeAttendanceService{
		snapshot: attendance.SnapshotResponse{
			EmployeeID:    "emp-1",
			Date:          "2024-03-11",
			CurrentStatus: string(attendance.StatusWorking),
		},
	}
	router, jwtSvc := newTestRouter(svc)
	token := accessToken(t, jwtSvc, "emp-1", false)

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/punch", token, map[string]string{"action": "PUNCH_IN"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "PUNCH_IN", svc.lastPunch.Action)

	var resp struct {
		Success bool                        `json:"success"`
		Data    attendance.SnapshotResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "WORKING", resp.Data.CurrentStatus)
}

func TestAttendanceHandler_Punch_Unauthorized(t *testing.T) {
	router, _ := newTestRouter(&fakeAttendanceService{})

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/punch", "", map[string]string{"action": "PUNCH_IN"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceHandler_Punch_InvalidAction(t *testing.T) {
	router, jwtSvc := newTestRouter(&fakeAttendanceService{})
	token := accessToken(t, jwtSvc, "emp-1", false)

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/punch", token, map[string]string{"action": "LUNCH"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendanceHandler_Punch_Conflict(t *testing.T) {
	tests := []struct {
		name     string
		punchErr error
		wantCode string
	}{
		{"duplicate punch in", attendance.ErrDuplicatePunchIn, "DUPLICATE_PUNCH_IN"},
		{"not working", attendance.ErrNotWorking, "NOT_WORKING"},
		{"already on break", attendance.ErrAlreadyOnBreak, "ALREADY_ON_BREAK"},
		{"no open break", attendance.ErrNoOpenBreak, "NO_OPEN_BREAK"},
		{"day sealed", attendance.ErrAlreadyPunchedOut, "ALREADY_PUNCHED_OUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAttendanceService{punchErr: tt.punchErr}
			router, jwtSvc := newTestRouter(svc)
			token := accessToken(t, jwtSvc, "emp-1", false)

			rec := doRequest(router, http.MethodPost, "/api/v1/attendance/punch", token, map[string]string{"action": "PUNCH_IN"})

			assert.Equal(t, http.StatusConflict, rec.Code)

			var resp struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAttendanceHandler_ManualPunch_ForbiddenForNonAdmin(t *testing.T) {
	router, jwtSvc := newTestRouter(&fakeAttendanceService{})
	token := accessToken(t, jwtSvc, "emp-1", false)

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/manual-punch", token, map[string]string{
		"user_id":   "emp-2",
		"action":    "PUNCH_IN",
		"timestamp": "2024-03-11T09:00:00Z",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAttendanceHandler_ManualPunch_AdminSuccess(t *testing.T) {
	svc := &fakeAttendanceService{}
	router, jwtSvc := newTestRouter(svc)
	token := accessToken(t, jwtSvc, "admin-1", true)

	rec := doRequest(router, http.MethodPost, "/api/v1/attendance/manual-punch", token, map[string]string{
		"user_id":   "emp-2",
		"action":    "PUNCH_IN",
		"timestamp": "2024-03-11T09:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "emp-2", svc.lastManual.UserID)
}

func TestAttendanceHandler_Recalculate_URLParams(t *testing.T) {
	svc := &fakeAttendanceService{}
	router, jwtSvc := newTestRouter(svc)
	token := accessToken(t, jwtSvc, "admin-1", true)

	rec := doRequest(router, http.MethodPut, "/api/v1/attendance/recalculate/emp-2/2024-03-11", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "emp-2", svc.recalcUser)
	assert.Equal(t, "2024-03-11", svc.recalcDate)
}

func TestAttendanceHandler_Get_NotFound(t *testing.T) {
	router, jwtSvc := newTestRouter(&fakeAttendanceService{})
	token := accessToken(t, jwtSvc, "admin-1", true)

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/emp-2/2024-03-11", token, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttendanceHandler_MySummary_InvalidRange(t *testing.T) {
	router, jwtSvc := newTestRouter(&fakeAttendanceService{})
	token := accessToken(t, jwtSvc, "emp-1", false)

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/my?start_date=2024-03-13&end_date=2024-03-11", token, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAttendanceHandler_MySummary_Success(t *testing.T) {
	svc := &fakeAttendanceService{
		summaryResp: attendance.PeriodSummaryResponse{
			EmployeeID:  "emp-1",
			StartDate:   "2024-03-11",
			EndDate:     "2024-03-13",
			PresentDays: 2,
		},
	}
	router, jwtSvc := newTestRouter(svc)
	token := accessToken(t, jwtSvc, "emp-1", false)

	rec := doRequest(router, http.MethodGet, "/api/v1/attendance/my?start_date=2024-03-11&end_date=2024-03-13", token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data attendance.PeriodSummaryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.PresentDays)
}
