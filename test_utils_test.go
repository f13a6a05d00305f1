package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
)

// MockHTTPServer creates a test HTTP server that mimics switch behavior
type MockHTTPServer struct {
	server       *httptest.Server
	model        string
	statsFile    string
	username     string
	password     string
	sessionToken string

	mu       sync.Mutex
	requests []RequestLog
}

type RequestLog struct {
	Method string
	Path   string
	Form   map[string][]string
	Header http.Header
}

// NewMockHTTPServer serves test-data/<model>/<statsFile> as the statistics
// page to clients logged in as admin/secret
func NewMockHTTPServer(model, statsFile string) *MockHTTPServer {
	mock := &MockHTTPServer{
		model:        model,
		statsFile:    statsFile,
		username:     "admin",
		password:     "secret",
		sessionToken: "test-session-token",
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

func (m *MockHTTPServer) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()

	m.mu.Lock()
	m.requests = append(m.requests, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Form:   r.PostForm,
		Header: r.Header.Clone(),
	})
	m.mu.Unlock()

	switch {
	case r.URL.Path == "/logon.cgi" && r.Method == http.MethodPost:
		m.handleLogin(w, r)
	case r.URL.Path == "/PortStatisticsRpm.htm" && r.Method == http.MethodGet:
		m.handleStatistics(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (m *MockHTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.PostForm.Get("username") != m.username || r.PostForm.Get("password") != m.password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  "SID",
		Value: m.sessionToken,
		Path:  "/",
	})

	w.Write([]byte(`<html>Login successful</html>`))
}

func (m *MockHTTPServer) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if !m.isAuthenticated(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	w.Write([]byte(loadTestFile(m.model, m.statsFile)))
}

func (m *MockHTTPServer) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie("SID")
	return err == nil && cookie.Value == m.sessionToken
}

func (m *MockHTTPServer) Close() {
	m.server.Close()
}

func (m *MockHTTPServer) URL() string {
	return m.server.URL
}

func (m *MockHTTPServer) GetRequests() []RequestLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RequestLog(nil), m.requests...)
}

// loadTestFile loads a test data file for a given model
func loadTestFile(model string, fileName string) string {
	fullFileName := filepath.Join("test-data", model, fileName)
	bytes, err := os.ReadFile(fullFileName)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}
