package ops

import (
	"sort"
	"sync"
	"time"

	"github.com/hpungsan/logfile/internal/config"
	"github.com/hpungsan/logfile/internal/custom"
	"github.com/hpungsan/logfile/internal/errors"
	"github.com/hpungsan/logfile/internal/structured"
	"github.com/hpungsan/logfile/internal/timing"
)

// session is one open log. Its mutex serializes every append and render on
// the underlying buffer, which is not safe for concurrent use on its own.
type session struct {
	mu        sync.Mutex
	id        string
	kind      LogKind
	createdAt time.Time
	free      *custom.Log
	trace     *structured.Log
}

func (s *session) len() int {
	if s.kind == KindTrace {
		return s.trace.Len()
	}
	return s.free.Len()
}

func (s *session) render() (string, error) {
	if s.kind == KindTrace {
		return s.trace.Render()
	}
	return s.free.Render()
}

// Registry holds the logs opened through the MCP server, keyed by ULID.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	cfg      *config.Config
	clock    timing.Clock
}

// NewRegistry creates an empty registry. A nil clock means the system clock.
func NewRegistry(cfg *config.Config, clock timing.Clock) *Registry {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Registry{
		sessions: make(map[string]*session),
		cfg:      cfg,
		clock:    timing.OrSystem(clock),
	}
}

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Kind      string  // "free" (default) or "trace"
	Timestamp *bool   // optional, defaults from config (timestamp / show_time)
	Separator *string // optional, defaults from config (separator / trace_separator)
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID        string  `json:"id"`
	Kind      LogKind `json:"kind"`
	Timestamp bool    `json:"timestamp"`
	Separator string  `json:"separator"`
	StartedAt int64   `json:"started_at"`
}

// Create opens a new empty log.
func (r *Registry) Create(input CreateInput) (*CreateOutput, error) {
	kind, err := ParseLogKind(input.Kind)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limit := r.cfg.MaxSessions; limit > 0 && len(r.sessions) >= limit {
		return nil, errors.NewTooManyLogs(limit)
	}

	s := &session{kind: kind}
	out := &CreateOutput{Kind: kind}

	switch kind {
	case KindTrace:
		showTime := r.cfg.ShowTimes()
		if input.Timestamp != nil {
			showTime = *input.Timestamp
		}
		sep := r.cfg.TraceSeparator
		if input.Separator != nil {
			sep = *input.Separator
		}
		s.trace = structured.New(showTime, sep, structured.WithClock(r.clock))
		s.createdAt = s.trace.StartTime()
		out.Timestamp, out.Separator = showTime, sep
	default:
		stamp := r.cfg.StampEntries()
		if input.Timestamp != nil {
			stamp = *input.Timestamp
		}
		sep := r.cfg.SeparatorRune()
		if input.Separator != nil {
			if sep, err = separatorRune(*input.Separator); err != nil {
				return nil, err
			}
		}
		s.free = custom.New(stamp, sep, custom.WithClock(r.clock))
		s.createdAt = s.free.StartTime()
		out.Timestamp, out.Separator = stamp, string(sep)
	}

	id, err := newID(s.createdAt)
	if err != nil {
		return nil, err
	}
	s.id = id
	r.sessions[id] = s

	out.ID = id
	out.StartedAt = s.createdAt.Unix()
	return out, nil
}

func (r *Registry) get(id string) (*session, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	return s, nil
}

// AddOutput contains the result of an append.
type AddOutput struct {
	ID      string `json:"id"`
	Entries int    `json:"entries"`
}

// AddNoteInput contains parameters for the AddNote operation.
type AddNoteInput struct {
	ID      string
	Title   string
	Context string
}

// AddNote appends a free-form entry to a free log.
func (r *Registry) AddNote(input AddNoteInput) (*AddOutput, error) {
	s, err := r.get(input.ID)
	if err != nil {
		return nil, err
	}
	if s.kind != KindFree {
		return nil, errors.NewInvalidRequest("log " + s.id + " is a trace log; use log_trace")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.free.Add(input.Title, input.Context)
	return &AddOutput{ID: s.id, Entries: s.free.Len()}, nil
}

// AddTraceInput contains parameters for the AddTrace operation.
type AddTraceInput struct {
	ID       string
	Function string
	Kind     string // V, FC, IF, ELIF, ELSE, R
	Name     string
	Extra    string
}

// AddTrace appends a structured entry to a trace log. An unknown kind fails
// with INVALID_KIND and appends nothing.
func (r *Registry) AddTrace(input AddTraceInput) (*AddOutput, error) {
	s, err := r.get(input.ID)
	if err != nil {
		return nil, err
	}
	if s.kind != KindTrace {
		return nil, errors.NewInvalidRequest("log " + s.id + " is a free log; use log_add")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.trace.AddTagged(input.Function, input.Name, input.Extra, input.Kind); err != nil {
		return nil, err
	}
	return &AddOutput{ID: s.id, Entries: s.trace.Len()}, nil
}

// RenderOutput contains the result of the Render operation.
type RenderOutput struct {
	ID      string  `json:"id"`
	Kind    LogKind `json:"kind"`
	Entries int     `json:"entries"`
	Text    string  `json:"text"`
}

// Render returns the full text of a log.
func (r *Registry) Render(id string) (*RenderOutput, error) {
	s, err := r.get(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	text, err := s.render()
	if err != nil {
		return nil, err
	}
	return &RenderOutput{ID: s.id, Kind: s.kind, Entries: s.len(), Text: text}, nil
}

// CloseOutput contains the result of the Close operation.
type CloseOutput struct {
	ID      string `json:"id"`
	Entries int    `json:"entries"`
	Closed  bool   `json:"closed"`
}

// Close drops a log from the registry. Unsaved entries are discarded.
func (r *Registry) Close(id string) (*CloseOutput, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &CloseOutput{ID: id, Entries: s.len(), Closed: true}, nil
}

// OpenLog summarizes an open log.
type OpenLog struct {
	ID        string  `json:"id"`
	Kind      LogKind `json:"kind"`
	Entries   int     `json:"entries"`
	StartedAt int64   `json:"started_at"`
}

// Open lists the open logs, oldest first.
func (r *Registry) Open() []OpenLog {
	r.mu.Lock()
	sessions := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].id < sessions[j].id })

	out := make([]OpenLog, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		out = append(out, OpenLog{ID: s.id, Kind: s.kind, Entries: s.len(), StartedAt: s.createdAt.Unix()})
		s.mu.Unlock()
	}
	return out
}
