// Package devserver is a self-contained stub of the plant scheduler
// backend: the envelope REST API, the SSE notification stream, and
// simulated scan jobs. It exists for demos and end-to-end testing
// without the real backend.
package devserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nbelyaev/linewatch/internal/domain"
)

// Server holds the stub's mutable state.
type Server struct {
	mu          sync.Mutex
	nextEventID int64
	events      []wireEvent
	jobs        map[string]*simJob
	subscribers map[int]chan wireEvent
	nextSub     int

	fixture Fixture
}

type simJob struct {
	id        string
	status    domain.JobStatus
	progress  float64
	message   string
	createdAt time.Time
	doneAt    *time.Time
}

type wireEvent struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Level     string          `json:"level"`
	Code      string          `json:"code"`
	Text      string          `json:"text"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// New creates a stub server pre-loaded with the given fixture.
func New(fixture Fixture) *Server {
	return &Server{
		jobs:        make(map[string]*simJob),
		subscribers: make(map[int]chan wireEvent),
		fixture:     fixture,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/core/", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, map[string]string{"status": "ok"})
	})

	r.Get("/api/production/lines/", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.fixture.Lines)
	})
	r.Get("/api/production/plan/", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.fixture.PlanTasks)
	})
	r.Get("/api/production/downtimes/", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.fixture.Downtimes)
	})
	r.Get("/api/production/conflicts/", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, s.fixture.Conflicts)
	})

	r.Post("/api/extraction/scan-jobs/start/", s.startScanJob)
	r.Get("/api/extraction/scan-jobs/", s.listScanJobs)
	r.Get("/api/extraction/scan-jobs/{jobID}/", s.getScanJob)

	r.Get("/api/notifications/stream/", s.streamEvents)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no such endpoint")
	})

	return r
}

// Emit publishes a notification to the stream and the replay log.
func (s *Server) Emit(level, code, text string, payload any) {
	var raw json.RawMessage
	if payload != nil {
		raw, _ = json.Marshal(payload)
	}

	s.mu.Lock()
	s.nextEventID++
	e := wireEvent{
		ID:        s.nextEventID,
		CreatedAt: time.Now().UTC(),
		Level:     level,
		Code:      code,
		Text:      text,
		Payload:   raw,
	}
	s.events = append(s.events, e)
	subs := make([]chan wireEvent, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (s *Server) startScanJob(w http.ResponseWriter, _ *http.Request) {
	job := &simJob{
		id:        uuid.NewString(),
		status:    domain.JobPending,
		message:   "queued",
		createdAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	go s.runJob(job.id)
	writeData(w, s.jobJSON(job.id))
}

// runJob walks the job through its lifecycle, emitting notifications
// along the way and finishing with a CONFLICT_DETECTED event per
// fixture conflict.
func (s *Server) runJob(id string) {
	step := func(status domain.JobStatus, progress float64, message string) {
		s.mu.Lock()
		if job, ok := s.jobs[id]; ok {
			job.status = status
			job.progress = progress
			job.message = message
			if status.Terminal() {
				now := time.Now().UTC()
				job.doneAt = &now
			}
		}
		s.mu.Unlock()
	}

	time.Sleep(300 * time.Millisecond)
	step(domain.JobRunning, 20, "extracting documents")
	time.Sleep(500 * time.Millisecond)
	step(domain.JobRunning, 70, "detecting conflicts")
	time.Sleep(500 * time.Millisecond)
	step(domain.JobCompleted, 100, "scan complete")

	for _, c := range s.fixture.Conflicts {
		s.Emit("warning", domain.CodeConflictDetected,
			fmt.Sprintf("%s: plan task overlaps a downtime", c.LineName()),
			c.Folded())
	}
}

func (s *Server) listScanJobs(w http.ResponseWriter, _ *http.Request) {
	type jobRef struct {
		id        string
		createdAt time.Time
	}
	s.mu.Lock()
	refs := make([]jobRef, 0, len(s.jobs))
	for id, job := range s.jobs {
		refs = append(refs, jobRef{id: id, createdAt: job.createdAt})
	}
	s.mu.Unlock()

	// Newest first, matching the backend's -created_at ordering.
	sort.Slice(refs, func(i, j int) bool {
		if !refs[i].createdAt.Equal(refs[j].createdAt) {
			return refs[i].createdAt.After(refs[j].createdAt)
		}
		return refs[i].id < refs[j].id
	})

	out := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		out = append(out, s.jobJSON(ref.id))
	}
	writeData(w, out)
}

func (s *Server) getScanJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobID")
	s.mu.Lock()
	_, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "scan job not found")
		return
	}
	writeData(w, s.jobJSON(id))
}

func (s *Server) jobJSON(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil
	}
	out := map[string]any{
		"id":         job.id,
		"status":     string(job.status),
		"progress":   job.progress,
		"message":    job.message,
		"created_at": job.createdAt,
	}
	if job.doneAt != nil {
		out["completed_at"] = job.doneAt
		out["results"] = map[string]any{
			"documents_processed": len(s.fixture.Downtimes),
			"downtimes_extracted": len(s.fixture.Downtimes),
			"downtimes_saved":     len(s.fixture.Downtimes),
			"conflicts_detected":  len(s.fixture.Conflicts),
			"conflicts_created":   len(s.fixture.Conflicts),
		}
	}
	return out
}

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher.Flush()

	sinceID, _ := strconv.ParseInt(r.URL.Query().Get("since_id"), 10, 64)

	ch := make(chan wireEvent, 64)
	s.mu.Lock()
	subID := s.nextSub
	s.nextSub++
	s.subscribers[subID] = ch
	var replay []wireEvent
	for _, e := range s.events {
		if e.ID > sinceID {
			replay = append(replay, e)
		}
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.subscribers, subID)
		s.mu.Unlock()
	}()

	for _, e := range replay {
		writeSSE(w, e)
	}
	flusher.Flush()

	keepalive := time.NewTicker(15 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			writeSSE(w, e)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, e wireEvent) {
	data, _ := json.Marshal(e)
	fmt.Fprintf(w, "id: %d\nevent: notification\ndata: %s\n\n", e.ID, data)
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]any{"code": code, "message": message},
	})
}
