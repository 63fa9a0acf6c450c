package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hbrp/insurance-bot/internal/domain"
	"github.com/hbrp/insurance-bot/internal/persistence"
)

// State is the full persisted document. The store owns it exclusively
// for the process lifetime; all reads and mutations go through View and
// Update so the file on disk always reflects the last mutation.
type State struct {
	Customers map[string]domain.Customer      `json:"customers"`
	Invoices  map[string]domain.Invoice       `json:"invoices"`
	Tickets   map[string]domain.Ticket        `json:"tickets"`
	Logs      []domain.AuditEntry             `json:"logs"`
	Settings  map[string]domain.GuildSettings `json:"settings"`
}

func newState() *State {
	return &State{
		Customers: map[string]domain.Customer{},
		Invoices:  map[string]domain.Invoice{},
		Tickets:   map[string]domain.Ticket{},
		Logs:      []domain.AuditEntry{},
		Settings:  map[string]domain.GuildSettings{},
	}
}

// normalize backfills collections missing from snapshots written by
// older deployments that only knew customers, invoices and logs.
func (s *State) normalize() {
	if s.Customers == nil {
		s.Customers = map[string]domain.Customer{}
	}
	if s.Invoices == nil {
		s.Invoices = map[string]domain.Invoice{}
	}
	if s.Tickets == nil {
		s.Tickets = map[string]domain.Ticket{}
	}
	if s.Logs == nil {
		s.Logs = []domain.AuditEntry{}
	}
	if s.Settings == nil {
		s.Settings = map[string]domain.GuildSettings{}
	}
}

// Store serializes all access to the persisted state. A single mutex is
// enough: the state is one document with no partial-write granularity,
// and every mutation rewrites the whole snapshot.
type Store struct {
	mu     sync.Mutex
	path   string
	state  *State
	logger *zap.Logger
}

// Open loads the snapshot at path. A missing file yields an empty
// initialized state; an unparsable file is a fatal CORRUPT_DATA error so
// the process never silently starts over an existing dataset.
func Open(path string, logger *zap.Logger) (*Store, error) {
	state := newState()
	found, err := persistence.LoadJSON(path, state)
	if err != nil {
		return nil, err
	}
	state.normalize()
	if found {
		logger.Info("loaded state snapshot",
			zap.String("path", path),
			zap.Int("customers", len(state.Customers)),
			zap.Int("invoices", len(state.Invoices)),
			zap.Int("log_entries", len(state.Logs)))
	} else {
		logger.Info("no snapshot found, starting with empty state", zap.String("path", path))
	}
	return &Store{path: path, state: state, logger: logger}, nil
}

// View runs fn with read access to the state.
func (s *Store) View(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Update runs fn with write access and persists the full state
// afterwards. When fn returns an error nothing is written.
func (s *Store) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.state); err != nil {
		return err
	}
	return persistence.SaveJSON(s.path, s.state)
}

// Path returns the snapshot location.
func (s *Store) Path() string { return s.path }
