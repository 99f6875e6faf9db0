package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/app/models/dto"
	"github.com/ucsb-cs156/crudapi/internal/config"
)

type testApp struct {
	router *gin.Engine
	deps   *Dependencies
	admin  string
	user   string
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "crudapi-test"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	lgr := zerolog.Nop()

	store, err := SetupStorage(context.Background(), cfg, lgr)
	if err != nil {
		t.Fatalf("SetupStorage: %v", err)
	}
	t.Cleanup(store.Close)

	deps, err := BuildDependencies(cfg, store, lgr)
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}

	app := &testApp{router: SetupRouter(cfg, deps, lgr), deps: deps}
	app.admin = app.token(t, &models.User{ID: 1, Email: "admin@ucsb.edu", Admin: true})
	app.user = app.token(t, &models.User{ID: 2, Email: "user@ucsb.edu"})
	return app
}

func (a *testApp) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, _, err := a.deps.JWTService.GenerateAccessToken(u, u.Roles())
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func (a *testApp) do(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func query(values map[string]string) string {
	q := url.Values{}
	for k, v := range values {
		q.Set(k, v)
	}
	return q.Encode()
}

func TestAuthorizationMatrix(t *testing.T) {
	app := newTestApp(t, testConfig())

	routes := []string{"book", "movie", "students", "vehicle"}
	requests := []struct {
		method    string
		path      string
		body      string
		userAllow bool
	}{
		{http.MethodGet, "/all", "", true},
		{http.MethodGet, "?id=1", "", true},
		{http.MethodPost, "/post", "", false},
		{http.MethodPut, "?id=1", "{}", false},
		{http.MethodDelete, "?id=1", "", false},
	}

	for _, route := range routes {
		for _, r := range requests {
			target := "/api/" + route + r.path

			t.Run("anonymous "+r.method+" "+target, func(t *testing.T) {
				rec := app.do(r.method, target, "", r.body)
				if rec.Code != http.StatusForbidden {
					t.Errorf("status = %d, want 403", rec.Code)
				}
				if got := decode[dto.ErrorResponse](t, rec); got.Type != dto.ErrorTypeAccessDenied {
					t.Errorf("type = %q", got.Type)
				}
			})

			t.Run("user "+r.method+" "+target, func(t *testing.T) {
				rec := app.do(r.method, target, app.user, r.body)
				if r.userAllow && rec.Code == http.StatusForbidden {
					t.Errorf("user was denied a read")
				}
				if !r.userAllow && rec.Code != http.StatusForbidden {
					t.Errorf("status = %d, want 403", rec.Code)
				}
			})

			t.Run("admin "+r.method+" "+target, func(t *testing.T) {
				if rec := app.do(r.method, target, app.admin, r.body); rec.Code == http.StatusForbidden {
					t.Errorf("admin was denied")
				}
			})
		}
	}
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	app := newTestApp(t, testConfig())

	if rec := app.do(http.MethodGet, "/api/book/all", "not-a-jwt", ""); rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestBookLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(http.MethodPost, "/api/book/post?"+query(map[string]string{
		"title": "Dune", "author": "Frank Herbert", "date": "1965-08-01",
	}), app.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[models.Book](t, rec)
	want := models.Book{ID: 1, Title: "Dune", Author: "Frank Herbert", Date: "1965-08-01"}
	if created != want {
		t.Fatalf("created = %+v, want %+v", created, want)
	}

	rec = app.do(http.MethodGet, "/api/book?id=1", app.user, "")
	if rec.Code != http.StatusOK || decode[models.Book](t, rec) != want {
		t.Fatalf("get status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = app.do(http.MethodGet, "/api/book/all", app.user, "")
	if all := decode[[]models.Book](t, rec); len(all) != 1 || all[0] != want {
		t.Errorf("list = %+v", all)
	}

	rec = app.do(http.MethodDelete, "/api/book?id=1", app.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if msg := decode[dto.MessageResponse](t, rec); msg.Message != "Book with id 1 deleted" {
		t.Errorf("delete message = %q", msg.Message)
	}

	rec = app.do(http.MethodGet, "/api/book?id=1", app.user, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	got := decode[dto.ErrorResponse](t, rec)
	if got.Type != "EntityNotFoundException" || got.Message != "Book with id 1 not found" {
		t.Errorf("not found payload = %+v", got)
	}
}

func TestCreateFromFormBody(t *testing.T) {
	app := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/movie/post", strings.NewReader(query(map[string]string{
		"movieName": "Alien", "directorName": "Ridley Scott", "releaseDate": "1979-05-25",
	})))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+app.admin)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if m := decode[models.Movie](t, rec); m.MovieName != "Alien" || m.ID == 0 {
		t.Errorf("created = %+v", m)
	}
}

func TestNotFoundPayloads(t *testing.T) {
	app := newTestApp(t, testConfig())

	tests := []struct {
		method string
		target string
		body   string
		want   string
	}{
		{http.MethodGet, "/api/book?id=7", "", "Book with id 7 not found"},
		{http.MethodGet, "/api/movie?id=15", "", "Movie with id 15 not found"},
		{http.MethodGet, "/api/students?id=3", "", "Student with id 3 not found"},
		{http.MethodGet, "/api/vehicle?id=9", "", "Vehicle with id 9 not found"},
		{http.MethodPut, "/api/book?id=7", `{"title":"t","author":"a","date":"d"}`, "Book with id 7 not found"},
		{http.MethodPut, "/api/vehicle?id=9", `{"brand":"b","model":"m","licence":"l","year":"y"}`, "Vehicle with id 9 not found"},
		{http.MethodDelete, "/api/movie?id=15", "", "Movie with id 15 not found"},
		{http.MethodDelete, "/api/students?id=3", "", "Student with id 3 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := app.do(tt.method, tt.target, app.admin, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			got := decode[dto.ErrorResponse](t, rec)
			if got.Type != dto.ErrorTypeEntityNotFound || got.Message != tt.want {
				t.Errorf("payload = %+v, want message %q", got, tt.want)
			}
		})
	}
}

func TestUpdateReplacesAndIsIdempotent(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(http.MethodPost, "/api/students/post?"+query(map[string]string{
		"firstName": "Jane", "lastName": "Doe", "perm": "1234567",
		"email": "jdoe@ucsb.edu", "phoneNumber": "805-555-0100", "major": "CMPSC",
	}), app.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[models.Student](t, rec)

	body := `{"id":999,"firstName":"Janet","lastName":"Roe","perm":7654321,"email":"jroe@ucsb.edu","phoneNumber":"805-555-0199","major":"MATH"}`
	want := models.Student{ID: created.ID, FirstName: "Janet", LastName: "Roe", Perm: 7654321,
		Email: "jroe@ucsb.edu", PhoneNumber: "805-555-0199", Major: "MATH"}

	for i := 0; i < 2; i++ {
		rec = app.do(http.MethodPut, "/api/students?id=1", app.admin, body)
		if rec.Code != http.StatusOK {
			t.Fatalf("update %d status = %d body=%s", i, rec.Code, rec.Body.String())
		}
		if got := decode[models.Student](t, rec); got != want {
			t.Errorf("update %d = %+v, want %+v", i, got, want)
		}
	}

	rec = app.do(http.MethodGet, "/api/students?id=1", app.user, "")
	if got := decode[models.Student](t, rec); got != want {
		t.Errorf("stored = %+v, want %+v", got, want)
	}
}

func TestDuplicateVehicleLicence(t *testing.T) {
	app := newTestApp(t, testConfig())

	create := func(brand string) *httptest.ResponseRecorder {
		return app.do(http.MethodPost, "/api/vehicle/post?"+query(map[string]string{
			"brand": brand, "model": "Escalade", "licence": "OG1", "year": "2023",
		}), app.admin, "")
	}

	if rec := create("Cadillac"); rec.Code != http.StatusOK {
		t.Fatalf("first create status = %d body=%s", rec.Code, rec.Body.String())
	}
	rec := create("Ford")
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
	if got := decode[dto.ErrorResponse](t, rec); got.Type != dto.ErrorTypeDataIntegrity {
		t.Errorf("type = %q", got.Type)
	}

	rec = app.do(http.MethodGet, "/api/vehicle/all", app.user, "")
	if all := decode[[]models.Vehicle](t, rec); len(all) != 1 {
		t.Errorf("vehicles = %+v, want only the first", all)
	}
}

func TestValidationErrors(t *testing.T) {
	app := newTestApp(t, testConfig())

	tests := []struct {
		name   string
		method string
		target string
		body   string
		field  string
	}{
		{"missing create param", http.MethodPost, "/api/book/post?title=Dune&author=Herbert", "", "date"},
		{"non numeric perm", http.MethodPost, "/api/students/post?" + query(map[string]string{
			"firstName": "J", "lastName": "D", "perm": "abc", "email": "j@ucsb.edu", "phoneNumber": "1", "major": "M",
		}), "", ""},
		{"missing id", http.MethodGet, "/api/book", "", "id"},
		{"non numeric id", http.MethodDelete, "/api/book?id=abc", "", "id"},
		{"update missing field", http.MethodPut, "/api/book?id=1", `{"title":"t","author":"a"}`, "date"},
		{"update malformed body", http.MethodPut, "/api/book?id=1", `{"title":`, ""},
		{"update empty body", http.MethodPut, "/api/book?id=1", "", ""},
		{"missing perm", http.MethodPost, "/api/students/post?" + query(map[string]string{
			"firstName": "J", "lastName": "D", "email": "j@ucsb.edu", "phoneNumber": "1", "major": "M",
		}), "", "perm"},
		{"update missing perm", http.MethodPut, "/api/students?id=1",
			`{"firstName":"J","lastName":"D","email":"j@ucsb.edu","phoneNumber":"1","major":"M"}`, "perm"},
		{"update null perm", http.MethodPut, "/api/students?id=1",
			`{"firstName":"J","lastName":"D","perm":null,"email":"j@ucsb.edu","phoneNumber":"1","major":"M"}`, "perm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.target, app.admin, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
			}
			got := decode[dto.ErrorResponse](t, rec)
			if got.Type != dto.ErrorTypeValidation {
				t.Errorf("type = %q", got.Type)
			}
			if tt.field != "" {
				if _, ok := got.Details[tt.field]; !ok {
					t.Errorf("details = %v, want entry for %s", got.Details, tt.field)
				}
			}
		})
	}
}

func TestStudentPermZero(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := app.do(http.MethodPost, "/api/students/post?"+query(map[string]string{
		"firstName": "A", "lastName": "B", "perm": "0",
		"email": "a@ucsb.edu", "phoneNumber": "1", "major": "M",
	}), app.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d body=%s", rec.Code, rec.Body.String())
	}
	created := decode[models.Student](t, rec)
	if created.Perm != 0 || created.ID == 0 {
		t.Fatalf("created = %+v", created)
	}

	rec = app.do(http.MethodPost, "/api/students/post?"+query(map[string]string{
		"firstName": "C", "lastName": "D", "perm": "42",
		"email": "c@ucsb.edu", "phoneNumber": "2", "major": "M",
	}), app.admin, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("second create status = %d body=%s", rec.Code, rec.Body.String())
	}
	second := decode[models.Student](t, rec)

	body := `{"firstName":"C","lastName":"D","perm":0,"email":"c@ucsb.edu","phoneNumber":"2","major":"M"}`
	rec = app.do(http.MethodPut, "/api/students?id="+strconv.FormatInt(second.ID, 10), app.admin, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("update to taken perm 0 status = %d body=%s", rec.Code, rec.Body.String())
	}

	body = `{"firstName":"A","lastName":"B","perm":0,"email":"a2@ucsb.edu","phoneNumber":"1","major":"M"}`
	rec = app.do(http.MethodPut, "/api/students?id="+strconv.FormatInt(created.ID, 10), app.admin, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[models.Student](t, rec); got.Perm != 0 || got.Email != "a2@ucsb.edu" {
		t.Errorf("updated = %+v", got)
	}
}

func TestLoginAndCurrentUser(t *testing.T) {
	cfg := testConfig()
	cfg.Seed.AdminEmail = "admin@ucsb.edu"
	cfg.Seed.AdminPassword = "admin"
	cfg.Auth.AdminEmails = []string{"boss@ucsb.edu"}
	app := newTestApp(t, cfg)
	SeedAccounts(context.Background(), cfg, app.deps)

	rec := app.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@ucsb.edu","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", rec.Code)
	}

	rec = app.do(http.MethodPost, "/api/auth/login", "", `{"email":"admin@ucsb.edu","password":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}
	token := decode[dto.TokenResponse](t, rec)

	rec = app.do(http.MethodGet, "/api/currentUser", token.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("currentUser status = %d", rec.Code)
	}
	me := decode[dto.CurrentUserResponse](t, rec)
	if me.Email != "admin@ucsb.edu" || !models.HasRole(me.Roles, models.RoleAdmin) {
		t.Errorf("currentUser = %+v", me)
	}

	// the issued token opens the write routes
	rec = app.do(http.MethodPost, "/api/book/post?title=Dune&author=Herbert&date=1965", token.AccessToken, "")
	if rec.Code != http.StatusOK {
		t.Errorf("create with login token status = %d", rec.Code)
	}

	if rec := app.do(http.MethodGet, "/api/currentUser", "", ""); rec.Code != http.StatusForbidden {
		t.Errorf("anonymous currentUser status = %d, want 403", rec.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, testConfig())

	if rec := app.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	app.do(http.MethodGet, "/api/book?id=5", app.user, "")

	rec := app.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `crudapi_crud_operations_total{entity="Book",operation="get",outcome="not_found"} 1`) {
		t.Errorf("metrics missing not_found counter:\n%s", body)
	}
	if !strings.Contains(body, `route="/api/book"`) {
		t.Errorf("metrics missing request route label")
	}
}
