package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/taskdeck-go/internal/cli/config"
	"github.com/yndnr/taskdeck-go/internal/core/domain"
)

const (
	testEmail    = "a@b.com"
	testPassword = "secret"
)

func makeToken(t *testing.T, sub, role string, exp int64) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  exp,
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// mockServer is an in-memory task API.
type mockServer struct {
	*httptest.Server

	mu    sync.Mutex
	token string
	tasks map[string]domain.Task
	order []string
}

func newMockServer(t *testing.T, token string) *mockServer {
	t.Helper()
	m := &mockServer{token: token, tasks: map[string]domain.Task{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", m.login)
	mux.HandleFunc("POST /users/register", m.register)
	mux.HandleFunc("GET /tasks/", m.authed(m.listTasks))
	mux.HandleFunc("POST /tasks/", m.authed(m.createTask))
	mux.HandleFunc("GET /tasks/{id}", m.authed(m.getTask))
	mux.HandleFunc("PUT /tasks/{id}", m.authed(m.putTask))
	mux.HandleFunc("DELETE /tasks/{id}", m.authed(m.deleteTask))

	m.Server = httptest.NewServer(mux)
	t.Cleanup(m.Close)
	return m
}

func (m *mockServer) seed(tasks ...domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range tasks {
		m.tasks[task.ID] = task
		m.order = append(m.order, task.ID)
	}
}

func (m *mockServer) task(id string) (domain.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	return task, ok
}

// setToken changes the token the server issues and accepts.
func (m *mockServer) setToken(tok string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = tok
}

func (m *mockServer) currentToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *mockServer) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+m.token {
			jsonResponse(w, http.StatusUnauthorized, map[string]any{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	}
}

func (m *mockServer) login(w http.ResponseWriter, r *http.Request) {
	r.ParseForm()
	if r.PostForm.Get("username") != testEmail || r.PostForm.Get("password") != testPassword {
		jsonResponse(w, http.StatusUnauthorized, map[string]any{"detail": "Invalid credentials"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"access_token": m.currentToken(), "token_type": "bearer"})
}

func (m *mockServer) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	json.NewDecoder(r.Body).Decode(&reg)
	if reg.Email == testEmail {
		jsonResponse(w, http.StatusBadRequest, map[string]any{"detail": "Email already registered"})
		return
	}
	jsonResponse(w, http.StatusOK, domain.Account{ID: "u2", Name: reg.Name, Email: reg.Email, Role: "user"})
}

func (m *mockServer) listTasks(w http.ResponseWriter, r *http.Request) {
	out := make([]domain.Task, 0, len(m.tasks))
	for _, id := range m.order {
		if task, ok := m.tasks[id]; ok {
			out = append(out, task)
		}
	}
	jsonResponse(w, http.StatusOK, out)
}

func (m *mockServer) createTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	json.NewDecoder(r.Body).Decode(&in)
	task := domain.Task{
		ID:          fmt.Sprintf("t%d", len(m.order)+1),
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		OwnerID:     "u1",
	}
	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	jsonResponse(w, http.StatusOK, task)
}

func (m *mockServer) getTask(w http.ResponseWriter, r *http.Request) {
	task, ok := m.tasks[r.PathValue("id")]
	if !ok {
		jsonResponse(w, http.StatusNotFound, map[string]any{"detail": "Task not found"})
		return
	}
	jsonResponse(w, http.StatusOK, task)
}

func (m *mockServer) putTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := m.tasks[id]
	if !ok {
		jsonResponse(w, http.StatusNotFound, map[string]any{"detail": "Task not found"})
		return
	}
	var in domain.TaskInput
	json.NewDecoder(r.Body).Decode(&in)
	task.Title, task.Description, task.Status = in.Title, in.Description, in.Status
	m.tasks[id] = task
	jsonResponse(w, http.StatusOK, task)
}

func (m *mockServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := m.tasks[id]; !ok {
		jsonResponse(w, http.StatusNotFound, map[string]any{"detail": "Task not found"})
		return
	}
	delete(m.tasks, id)
	jsonResponse(w, http.StatusOK, map[string]any{"message": "Task deleted successfully"})
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testEnv is a runtime wired to a mock server with captured output.
type testEnv struct {
	t      *testing.T
	server *mockServer
	cfg    *config.CLIConfig
	rt     *Runtime
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	server := newMockServer(t, makeToken(t, testEmail, "user", time.Now().Add(time.Hour).Unix()))
	cfg := config.Default()
	cfg.Server = server.URL
	cfg.Log.Level = "error"
	cfg.Storage.Engine = "memory"
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "data")

	env := &testEnv{t: t, server: server, cfg: cfg}
	env.reset("")
	return env
}

// reset builds a fresh runtime over the same config, as a new process would.
func (e *testEnv) reset(stdin string) {
	e.t.Helper()
	rt, err := NewRuntime(e.cfg, filepath.Join(e.t.TempDir(), "cli.yaml"), nil)
	if err != nil {
		e.t.Fatalf("NewRuntime() error = %v", err)
	}
	e.out = &bytes.Buffer{}
	e.errOut = &bytes.Buffer{}
	rt.SetIO(strings.NewReader(stdin), e.out, e.errOut)
	e.rt = rt
	e.t.Cleanup(func() { rt.Close() })
}

// run executes one command line against the current runtime.
func (e *testEnv) run(args ...string) error {
	e.t.Helper()
	app := App()
	app.Writer = e.out
	app.ErrWriter = e.errOut
	UseRuntime(app, e.rt)
	return app.Run(append([]string{"taskdeck"}, args...))
}

// loginDirect stores a valid session without going through the API.
func (e *testEnv) loginDirect() {
	e.t.Helper()
	ctx := context.Background()
	session, err := e.rt.Session(ctx)
	if err != nil {
		e.t.Fatalf("Session() error = %v", err)
	}
	if err := session.Login(ctx, e.server.currentToken()); err != nil {
		e.t.Fatalf("Login() error = %v", err)
	}
}
