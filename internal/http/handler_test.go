package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ticket-tracker.com/ticket-tracker/internal/auth"
	model "ticket-tracker.com/ticket-tracker/internal/models"
	repository "ticket-tracker.com/ticket-tracker/internal/repositories"
	"ticket-tracker.com/ticket-tracker/internal/rules"
	"ticket-tracker.com/ticket-tracker/internal/services"
)

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	ticketService := services.NewTicketService(repository.NewTicketRepository(db), rules.DefaultPolicy())
	authService := services.NewAuthService(
		repository.NewUserRepository(db),
		auth.NewMemoryTokenStore(),
		services.SuperuserDefaults{Username: "admin", Email: "admin@admin.com", Password: "admin"},
	)

	e := echo.New()
	Register(e, NewHandler(ticketService), NewAuthHandler(authService), authService, 10000)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

// signup bootstraps an account over HTTP and returns its token.
func signup(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/auth/create-superuser", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secretpass",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed with status %d: %s", rec.Code, rec.Body.String())
	}
	return decode(t, rec)["token"].(string)
}

func createTicket(t *testing.T, e *echo.Echo, token, title, description string) string {
	t.Helper()

	rec := doJSON(t, e, http.MethodPost, "/tickets", token, map[string]string{
		"title":       title,
		"description": description,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ticket failed with status %d: %s", rec.Code, rec.Body.String())
	}
	return decode(t, rec)["id"].(string)
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	e := newTestAPI(t)

	if rec := doJSON(t, e, http.MethodGet, "/tickets", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/tickets", "bogus", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: expected 401, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodPost, "/auth/logout", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("logout without token: expected 401, got %d", rec.Code)
	}
}

func TestAPI_CreateIgnoresClientStatus(t *testing.T) {
	e := newTestAPI(t)
	token := signup(t, e, "alice")

	rec := doJSON(t, e, http.MethodPost, "/tickets", token, map[string]string{
		"title":       "Bug",
		"description": "Something broke today",
		"status":      "in_progress",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decode(t, rec)
	if body["status"] != "open" {
		t.Errorf("status must be forced to open, got %v", body["status"])
	}
	if _, leaked := body["user_id"]; leaked {
		t.Error("owner must never appear in responses")
	}
}

func TestAPI_ValidationErrorShape(t *testing.T) {
	e := newTestAPI(t)
	token := signup(t, e, "alice")

	rec := doJSON(t, e, http.MethodPost, "/tickets", token, map[string]string{
		"title":       "ab",
		"description": "short",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	body := decode(t, rec)
	if _, ok := body["title"]; !ok {
		t.Error("expected a title field error")
	}
	if _, ok := body["description"]; !ok {
		t.Error("expected a description field error")
	}
}

func TestAPI_DuplicateTitlePerOwner(t *testing.T) {
	e := newTestAPI(t)
	alice := signup(t, e, "alice")
	bob := signup(t, e, "bob")

	createTicket(t, e, alice, "Bug", "Something broke today")

	rec := doJSON(t, e, http.MethodPost, "/tickets", alice, map[string]string{
		"title":       "Bug",
		"description": "Something broke today",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate title for the same owner: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/tickets", bob, map[string]string{
		"title":       "Bug",
		"description": "Something broke today",
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("same title for another owner: expected 201, got %d", rec.Code)
	}
}

func TestAPI_CrossOwnerLooksLikeMissing(t *testing.T) {
	e := newTestAPI(t)
	alice := signup(t, e, "alice")
	bob := signup(t, e, "bob")

	id := createTicket(t, e, alice, "Private", "Only alice can see this")

	if rec := doJSON(t, e, http.MethodGet, "/tickets/"+id, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner GET: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodPatch, "/tickets/"+id, bob, map[string]string{"title": "Hacked!"}); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner PATCH: expected 404, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, "/tickets/"+id, bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("cross-owner DELETE: expected 404, got %d", rec.Code)
	}

	// Listing stays owner-scoped.
	rec := doJSON(t, e, http.MethodGet, "/tickets", bob, nil)
	var tickets []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &tickets); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(tickets) != 0 {
		t.Errorf("bob should see no tickets, got %d", len(tickets))
	}
}

func TestAPI_StatusTransitions(t *testing.T) {
	e := newTestAPI(t)
	token := signup(t, e, "alice")

	id := createTicket(t, e, token, "Workflow", "Walk the state machine")

	rec := doJSON(t, e, http.MethodPatch, "/tickets/"+id, token, map[string]string{"status": "resolved"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("open -> resolved: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPatch, "/tickets/"+id, token, map[string]string{"status": "in_progress"})
	if rec.Code != http.StatusOK {
		t.Fatalf("open -> in_progress: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decode(t, rec)["status"] != "in_progress" {
		t.Error("expected the updated status in the response")
	}
}

func TestAPI_ClosedTicketImmutable(t *testing.T) {
	e := newTestAPI(t)
	token := signup(t, e, "alice")

	id := createTicket(t, e, token, "Done deal", "This one gets closed")
	if rec := doJSON(t, e, http.MethodPatch, "/tickets/"+id, token, map[string]string{"status": "closed"}); rec.Code != http.StatusOK {
		t.Fatalf("open -> closed: expected 200, got %d", rec.Code)
	}

	if rec := doJSON(t, e, http.MethodPatch, "/tickets/"+id, token, map[string]string{"title": "new name"}); rec.Code != http.StatusBadRequest {
		t.Errorf("editing a closed ticket: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, "/tickets/"+id, token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("deleting a closed ticket: expected 400, got %d", rec.Code)
	}

	rec := doJSON(t, e, http.MethodGet, "/tickets/"+id, token, nil)
	if body := decode(t, rec); body["title"] != "Done deal" {
		t.Errorf("closed ticket must be unchanged, got title %v", body["title"])
	}
}

func TestAPI_DeleteOpenTicket(t *testing.T) {
	e := newTestAPI(t)
	token := signup(t, e, "alice")

	id := createTicket(t, e, token, "Trash me", "No longer relevant ticket")

	if rec := doJSON(t, e, http.MethodDelete, "/tickets/"+id, token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/tickets/"+id, token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted ticket should 404, got %d", rec.Code)
	}
}

func TestAPI_AuthFlow(t *testing.T) {
	e := newTestAPI(t)

	rec := doJSON(t, e, http.MethodPost, "/auth/create-superuser", "", map[string]string{})
	if rec.Code != http.StatusCreated {
		t.Fatalf("bootstrap: expected 201, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodPost, "/auth/create-superuser", "", map[string]string{}); rec.Code != http.StatusOK {
		t.Errorf("repeat bootstrap: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/auth/login", "", map[string]interface{}{"auto": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("auto login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token from login")
	}
	user, _ := body["user"].(map[string]interface{})
	if user["username"] != "admin" {
		t.Errorf("expected the admin user, got %v", user)
	}

	rec = doJSON(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials: expected 401, got %d", rec.Code)
	}
	if _, ok := decode(t, rec)["error"]; !ok {
		t.Error("login failure should carry an error field")
	}

	if rec := doJSON(t, e, http.MethodPost, "/auth/logout", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/tickets", token, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", rec.Code)
	}
}
