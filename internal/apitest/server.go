// Package apitest provides a scripted fake of the extraction backend for tests.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// Reply is a canned response: a status code and a JSON body.
type Reply struct {
	Status int
	Body   any
}

// Server is a fake backend. Replies can be changed between calls; every
// request is recorded.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]Reply
	requests map[string][]map[string]any
	gate     chan struct{}
}

// Endpoint paths served by the fake
const (
	PathConfig  = "/api/config"
	PathModels  = "/api/ollama/models"
	PathPreview = "/api/url-preview"
	PathExtract = "/api/extract"
	PathHealth  = "/api/health"
)

// NewServer starts a fake backend answering every endpoint with a
// successful default reply. Call Close when done.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		replies:  DefaultReplies(),
		requests: make(map[string][]map[string]any),
	}

	r := gin.New()
	r.GET(PathConfig, s.handle(PathConfig))
	r.GET(PathHealth, s.handle(PathHealth))
	r.POST(PathModels, s.handle(PathModels))
	r.POST(PathPreview, s.handle(PathPreview))
	r.POST(PathExtract, s.handle(PathExtract))

	s.Server = httptest.NewServer(r)
	return s
}

// DefaultReplies returns the successful reply of every endpoint
func DefaultReplies() map[string]Reply {
	return map[string]Reply{
		PathConfig: {Status: http.StatusOK, Body: gin.H{
			"ollama":   gin.H{"default_model": "llama2"},
			"openai":   gin.H{"default_model": "gpt-4o-mini", "api_key_configured": true},
			"deepseek": gin.H{"default_model": "deepseek-chat", "api_key_configured": false},
		}},
		PathModels: {Status: http.StatusOK, Body: gin.H{
			"success": true,
			"models": []gin.H{
				{"name": "mistral:7b", "size": 4113301824, "modified_at": "2024-05-01T10:00:00Z"},
				{"name": "llama2", "size": 3825819519, "modified_at": "2024-04-02T09:30:00Z"},
			},
		}},
		PathPreview: {Status: http.StatusOK, Body: gin.H{
			"success": true,
			"title":   "Senior Go Engineer - Acme",
			"url":     "https://jobs.example.com/123",
			"preview": "Acme is hiring a Senior Go Engineer...",
			"length":  2048,
		}},
		PathExtract: {Status: http.StatusOK, Body: gin.H{
			"success":        true,
			"data":           gin.H{"jobTitle": "Senior Go Engineer", "company": "Acme", "location": "Remote"},
			"provider":       "ollama",
			"content_length": 1234,
		}},
		PathHealth: {Status: http.StatusOK, Body: gin.H{
			"status":  "healthy",
			"message": "Job Analyzer API is running",
		}},
	}
}

// Reply replaces the reply of one endpoint
func (s *Server) Reply(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[path] = Reply{Status: status, Body: body}
}

// Fail makes an endpoint answer like the backend does on error
func (s *Server) Fail(path, message string) {
	s.Reply(path, http.StatusBadRequest, gin.H{"success": false, "error": message})
}

// Hold makes every request block until Release is called
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks held requests
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Requests returns the decoded JSON bodies received on path
func (s *Server) Requests(path string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.requests[path]))
	copy(out, s.requests[path])
	return out
}

// Count returns how many requests path received
func (s *Server) Count(path string) int {
	return len(s.Requests(path))
}

func (s *Server) handle(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := map[string]any{}
		if c.Request.Method == http.MethodPost {
			_ = c.ShouldBindJSON(&body)
		}
		if id := c.GetHeader("X-Request-ID"); id != "" {
			body["_request_id"] = id
		}

		s.mu.Lock()
		s.requests[path] = append(s.requests[path], body)
		reply := s.replies[path]
		gate := s.gate
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-c.Request.Context().Done():
				return
			}
		}

		c.JSON(reply.Status, reply.Body)
	}
}
