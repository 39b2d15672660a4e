package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/forum-api/internal/models"
	"github.com/crucial707/forum-api/internal/repo"
	"github.com/crucial707/forum-api/internal/service"
	"github.com/lib/pq"
)

var (
	forumCols    = []string{"id", "title", "description", "tags", "created_by", "created_at", "username"}
	forumRowCols = []string{"id", "title", "description", "tags", "created_by", "created_at"}
)

func expectForumLookup(mock sqlmock.Sqlmock, id, createdBy int) {
	mock.ExpectQuery(`FROM forums f`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(forumCols).AddRow(id, "Go", "all things go", "{go}", createdBy, time.Now(), "owner"))
}

func newForumHandler(db *sql.DB, ownerOnly bool) *ForumHandler {
	return &ForumHandler{
		Forums: service.NewForumService(db, ownerOnly),
		Audit:  repo.NewAuditRepo(db),
	}
}

func TestForumHandler_ListForums(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM forums f.*LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(forumCols).
			AddRow(2, "Rust", "", "{}", 1, time.Now(), "alice").
			AddRow(1, "Go", "", "{go}", 1, time.Now(), "alice"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rr := httptest.NewRecorder()
	newForumHandler(db, true).ListForums(rr, httptest.NewRequest("GET", "/forums", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("ListForums status: got %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("X-Total-Count"); got != "2" {
		t.Errorf("X-Total-Count: got %q, want 2", got)
	}
	var list []models.Forum
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 || list[0].Creator == nil || list[0].Creator.Username != "alice" {
		t.Errorf("unexpected list: %+v", list)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_GetForum(t *testing.T) {
	db, mock := newMockDB(t)

	expectForumLookup(mock, 1, 5)
	mock.ExpectQuery(`FROM comments c`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "forum_id", "user_id", "content", "created_at", "username"}))

	req := requestWithChiURLParams("GET", "/forums/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	newForumHandler(db, true).GetForum(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("GetForum status: got %d, want 200", rr.Code)
	}
	var out struct {
		Forum    models.Forum     `json:"forum"`
		Comments []models.Comment `json:"comments"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Forum.ID != 1 || out.Comments == nil || len(out.Comments) != 0 {
		t.Errorf("unexpected detail: %+v", out)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_GetForum_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM forums f`).WithArgs(999).WillReturnError(sql.ErrNoRows)

	req := requestWithChiURLParams("GET", "/forums/999", nil, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	newForumHandler(db, true).GetForum(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("GetForum status: got %d, want 404", rr.Code)
	}
	if out := decodeError(t, rr); out["error"] != "forum not found" {
		t.Errorf("unexpected error: %v", out["error"])
	}
	checkExpectations(t, mock)
}

func TestForumHandler_GetForum_InvalidID(t *testing.T) {
	db, _ := newMockDB(t)
	req := requestWithChiURLParams("GET", "/forums/abc", nil, map[string]string{"id": "abc"})
	rr := httptest.NewRecorder()
	newForumHandler(db, true).GetForum(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("GetForum status: got %d, want 400", rr.Code)
	}
}

func TestForumHandler_CreateForum_IgnoresCreatedBy(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO forums`).
		WithArgs("Go", "all things go", pq.Array([]string{"go"}), 5).
		WillReturnRows(sqlmock.NewRows(forumRowCols).AddRow(10, "Go", "all things go", "{go}", 5, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(5, "create", "forum", 10, "Go").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := mustJSON(t, map[string]interface{}{
		"title":       "Go",
		"description": "all things go",
		"tags":        []string{"go"},
		"createdBy":   99,
	})
	req := asUser(requestWithChiURLParams("POST", "/forums", body, nil), 5)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).CreateForum(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateForum status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var f models.Forum
	if err := json.NewDecoder(rr.Body).Decode(&f); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if f.CreatedBy != 5 {
		t.Errorf("created_by: got %d, want 5", f.CreatedBy)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_CreateForum_Validation(t *testing.T) {
	db, mock := newMockDB(t)

	body := mustJSON(t, map[string]interface{}{"description": "no title"})
	req := asUser(requestWithChiURLParams("POST", "/forums", body, nil), 5)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).CreateForum(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("CreateForum status: got %d, want 400", rr.Code)
	}
	fields, _ := decodeError(t, rr)["fields"].(map[string]interface{})
	if fields["title"] == nil {
		t.Errorf("expected title field error, got %v", fields)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_CreateForum_BlankTitle(t *testing.T) {
	db, mock := newMockDB(t)

	body := mustJSON(t, map[string]interface{}{"title": "   ", "description": "whitespace only"})
	req := asUser(requestWithChiURLParams("POST", "/forums", body, nil), 5)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).CreateForum(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("CreateForum status: got %d, want 400 (%s)", rr.Code, rr.Body.String())
	}
	fields, _ := decodeError(t, rr)["fields"].(map[string]interface{})
	if fields["title"] == nil {
		t.Errorf("expected title field error, got %v", fields)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_CreateForum_TrimsTitle(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO forums`).
		WithArgs("Go", "all things go", pq.Array([]string{}), 5).
		WillReturnRows(sqlmock.NewRows(forumRowCols).AddRow(10, "Go", "all things go", "{}", 5, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(5, "create", "forum", 10, "Go").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := mustJSON(t, map[string]interface{}{"title": "  Go\n", "description": " all things go "})
	req := asUser(requestWithChiURLParams("POST", "/forums", body, nil), 5)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).CreateForum(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateForum status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	checkExpectations(t, mock)
}

func TestForumHandler_UpdateForum_NotOwner(t *testing.T) {
	db, mock := newMockDB(t)

	expectForumLookup(mock, 1, 5)

	body := mustJSON(t, map[string]interface{}{"title": "Hijacked"})
	req := asUser(requestWithChiURLParams("PUT", "/forums/1", body, map[string]string{"id": "1"}), 6)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).UpdateForum(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("UpdateForum status: got %d, want 403", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_UpdateForum_AnyUserWhenPolicyOff(t *testing.T) {
	db, mock := newMockDB(t)

	expectForumLookup(mock, 1, 5)
	mock.ExpectQuery(`UPDATE forums`).
		WithArgs("Edited", "", pq.Array([]string{}), 1).
		WillReturnRows(sqlmock.NewRows(forumRowCols).AddRow(1, "Edited", "", "{}", 5, time.Now()))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(6, "update", "forum", 1, "Edited").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := mustJSON(t, map[string]interface{}{"title": "Edited"})
	req := asUser(requestWithChiURLParams("PUT", "/forums/1", body, map[string]string{"id": "1"}), 6)
	rr := httptest.NewRecorder()
	newForumHandler(db, false).UpdateForum(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("UpdateForum status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	checkExpectations(t, mock)
}

func TestForumHandler_DeleteForum_Cascades(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	expectForumLookup(mock, 1, 5)
	mock.ExpectExec(`DELETE FROM comments WHERE forum_id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM forums WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(5, "delete", "forum", 1, "comments removed: 2").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := asUser(requestWithChiURLParams("DELETE", "/forums/1", nil, map[string]string{"id": "1"}), 5)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).DeleteForum(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("DeleteForum status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	out := decodeError(t, rr)
	if out["message"] != "forum deleted" || out["comments_deleted"] != float64(2) {
		t.Errorf("unexpected body: %v", out)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_DeleteForum_NotOwnerRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	expectForumLookup(mock, 1, 5)
	mock.ExpectRollback()

	req := asUser(requestWithChiURLParams("DELETE", "/forums/1", nil, map[string]string{"id": "1"}), 6)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).DeleteForum(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("DeleteForum status: got %d, want 403", rr.Code)
	}
	checkExpectations(t, mock)
}

func TestForumHandler_CreateForum_Unauthenticated(t *testing.T) {
	db, _ := newMockDB(t)
	rr := httptest.NewRecorder()
	newForumHandler(db, true).CreateForum(rr, httptest.NewRequest("POST", "/forums", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("CreateForum status: got %d, want 401", rr.Code)
	}
}
