package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
)

func TestAuditHandler_ListAudit(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM audit_log WHERE user_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(5, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource_type", "resource_id", "details", "created_at"}).
			AddRow(2, 5, "delete", "forum", 1, "comments removed: 2", time.Now()))

	h := &AuditHandler{Repo: repo.NewAuditRepo(db)}
	rr := httptest.NewRecorder()
	h.ListAudit(rr, asUser(httptest.NewRequest("GET", "/audit?limit=10", nil), 5))

	if rr.Code != http.StatusOK {
		t.Fatalf("ListAudit status: got %d, want 200", rr.Code)
	}
	var entries []models.AuditEntry
	if err := json.NewDecoder(rr.Body).Decode(&entries); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "delete" || entries[0].ResourceType != models.ResourceForum {
		t.Errorf("unexpected entries: %+v", entries)
	}
	checkExpectations(t, mock)
}

func TestAuditHandler_ListAudit_NoIdentity(t *testing.T) {
	db, mock := newMockDB(t)

	h := &AuditHandler{Repo: repo.NewAuditRepo(db)}
	rr := httptest.NewRecorder()
	h.ListAudit(rr, httptest.NewRequest("GET", "/audit", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("ListAudit status: got %d, want 401", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestHealthHandler(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	h := &HealthHandler{DB: db}

	rr := httptest.NewRecorder()
	h.Live(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Live status: got %d, want 200", rr.Code)
	}

	mock.ExpectPing()
	rr = httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest("GET", "/ready", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Ready status: got %d, want 200", rr.Code)
	}

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rr = httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest("GET", "/ready", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Ready status with failed ping: got %d, want 503", rr.Code)
	}
}
