package notebook

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

// PersistenceClient is the storage collaborator consumed by a session.
type PersistenceClient interface {
	Save(ctx context.Context, userID uuid.UUID, req *models.SaveItineraryRequest) (*models.SaveItineraryResult, error)
	Load(ctx context.Context, userID, itineraryID uuid.UUID) (*models.StoredItinerary, error)
}

// Phase is the lifecycle state of a session. Dirty and saving are orthogonal
// flags layered on top of ready.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

const saveRequestTimeout = 30 * time.Second

// Session holds the notebook state for one user: the block document as the
// single mutable source of truth, the structured itinerary as a derived
// projection, directions data, and the dirty/save machinery. All mutations go
// through the session; the debounce timer is owned by the instance and torn
// down on Close.
type Session struct {
	mu       sync.Mutex
	userID   uuid.UUID
	store    PersistenceClient
	debounce time.Duration
	logger   *zap.Logger

	phase              Phase
	currentItineraryID *uuid.UUID
	title              string
	editorData         *models.BlockDocument
	currentItinerary   *models.StructuredItinerary
	directions         *models.RouteData
	metadata           *models.TripMetadata
	contentHash        string
	persistedHash      string
	dirty              bool
	saving             bool
	lastSaved          time.Time
	selectedPlace      string
	lastErr            error

	saveTimer *time.Timer
	closed    bool
}

// State is a read-only snapshot of a session for handlers and tests.
type State struct {
	Phase         Phase                       `json:"phase"`
	ItineraryID   *uuid.UUID                  `json:"itineraryId,omitempty"`
	Title         string                      `json:"title,omitempty"`
	EditorData    *models.BlockDocument       `json:"editorData,omitempty"`
	Itinerary     *models.StructuredItinerary `json:"itinerary,omitempty"`
	Directions    *models.RouteData           `json:"directions,omitempty"`
	ContentHash   string                      `json:"contentHash,omitempty"`
	Dirty         bool                        `json:"dirty"`
	Saving        bool                        `json:"saving"`
	LastSaved     time.Time                   `json:"lastSaved,omitempty"`
	SelectedPlace string                      `json:"selectedPlace,omitempty"`
	LastError     string                      `json:"lastError,omitempty"`
}

func NewSession(userID uuid.UUID, store PersistenceClient, debounce time.Duration, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		userID:   userID,
		store:    store,
		debounce: debounce,
		logger:   logger,
		phase:    PhaseIdle,
	}
}

// Load fetches a stored itinerary and makes it the session's source of truth.
// On failure the previous data, if any, is left untouched.
func (s *Session) Load(ctx context.Context, itineraryID uuid.UUID) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ErrBadRequest
	}
	s.phase = PhaseLoading
	s.mu.Unlock()

	stored, err := s.store.Load(ctx, s.userID, itineraryID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// The error is surfaced through lastErr; a session that still holds a
		// document stays in ready so the user keeps editing it, and only a
		// session with nothing to show drops to the error phase.
		s.lastErr = err
		if s.editorData != nil {
			s.phase = PhaseReady
		} else {
			s.phase = PhaseError
		}
		return err
	}

	id := stored.ID
	s.currentItineraryID = &id
	s.title = stored.Title
	s.editorData = stored.EditorData
	s.currentItinerary = ToItinerary(stored.EditorData)
	s.directions = stored.Directions
	s.metadata = stored.Metadata
	s.contentHash = Hash(stored.EditorData)
	s.persistedHash = s.contentHash
	s.dirty = false
	s.lastSaved = stored.LastUpdated
	s.lastErr = nil
	s.phase = PhaseReady
	return nil
}

// SetEditorData applies a system-driven document update (e.g. the projection
// of freshly generated content). The session is marked dirty only if the
// content hash changed.
func (s *Session) SetEditorData(doc *models.BlockDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	hash := Hash(doc)
	changed := hash != s.contentHash
	s.applyDocumentLocked(doc, hash)
	s.dirty = changed
	if s.dirty {
		s.scheduleSaveLocked()
	}
}

// UpdateEditorData applies a user-driven edit. It always marks the session
// dirty, even when the canonical content hash is unchanged: downstream
// consumers need a refresh signal even for identical retyped text.
func (s *Session) UpdateEditorData(doc *models.BlockDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.applyDocumentLocked(doc, Hash(doc))
	s.dirty = true
	s.scheduleSaveLocked()
}

func (s *Session) applyDocumentLocked(doc *models.BlockDocument, hash string) {
	s.editorData = doc
	s.currentItinerary = ToItinerary(doc)
	s.contentHash = hash
	if s.phase == PhaseIdle || s.phase == PhaseError {
		s.phase = PhaseReady
	}
}

// SetDirections replaces the directions data carried with the next save.
func (s *Session) SetDirections(routes *models.RouteData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directions = routes
}

// SetMetadata records trip metadata included with save requests.
func (s *Session) SetMetadata(title string, metadata *models.TripMetadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.metadata = metadata
}

// SelectPlace records the currently selected place UID. Selection is
// transient UI state and never affects dirtiness.
func (s *Session) SelectPlace(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedPlace = uid
}

// scheduleSaveLocked restarts the debounced auto-save: a new timer cancels any
// pending (not yet fired) one. Callers hold s.mu.
func (s *Session) scheduleSaveLocked() {
	if s.closed || s.store == nil {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveRequestTimeout)
		defer cancel()
		if err := s.Flush(ctx); err != nil {
			s.logger.Warn("Auto-save failed", zap.Error(err))
		}
	})
}

// Flush persists the current state immediately. It is also the manual retry
// path after a failed auto-save. A save reported unchanged server-side marks
// the session clean without flipping the saving indicator. On failure the
// session stays dirty so a later edit or retry re-attempts.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || !s.dirty || s.editorData == nil || s.store == nil {
		s.mu.Unlock()
		return nil
	}

	req := &models.SaveItineraryRequest{
		ID:         s.currentItineraryID,
		Title:      s.title,
		EditorData: s.editorData,
		Directions: s.directions,
		Metadata:   s.metadata,
		LastSaved:  s.lastSaved,
	}
	// When the content hash already matches the last persisted revision the
	// storage layer will report the save as unchanged; skip the user-visible
	// saving indicator for that case.
	expectChanged := s.contentHash != s.persistedHash
	sentHash := s.contentHash
	if expectChanged {
		s.saving = true
	}
	s.mu.Unlock()

	result, err := s.store.Save(ctx, s.userID, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false

	if err != nil {
		s.lastErr = err
		return err
	}

	// Last-write-wins: a response from a superseded request may land here
	// after a newer edit; the dirty flag set by that edit survives because we
	// only clear it when the persisted hash matches the current one.
	if s.currentItineraryID == nil {
		id := result.ID
		s.currentItineraryID = &id
	}
	s.persistedHash = sentHash
	if s.contentHash == sentHash {
		s.dirty = false
	}
	if !result.Unchanged {
		s.lastSaved = result.SavedAt
	}
	s.lastErr = nil
	return nil
}

// ClearItinerary resets the session to its initial empty state
// unconditionally.
func (s *Session) ClearItinerary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.phase = PhaseIdle
	s.currentItineraryID = nil
	s.title = ""
	s.editorData = nil
	s.currentItinerary = nil
	s.directions = nil
	s.metadata = nil
	s.contentHash = ""
	s.persistedHash = ""
	s.dirty = false
	s.saving = false
	s.lastSaved = time.Time{}
	s.selectedPlace = ""
	s.lastErr = nil
}

// Close tears the session down and cancels any pending auto-save timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.closed = true
}

func (s *Session) stopTimerLocked() {
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
}

// Snapshot returns a copy of the observable session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Phase:         s.phase,
		ItineraryID:   s.currentItineraryID,
		Title:         s.title,
		EditorData:    s.editorData,
		Itinerary:     s.currentItinerary,
		Directions:    s.directions,
		ContentHash:   s.contentHash,
		Dirty:         s.dirty,
		Saving:        s.saving,
		LastSaved:     s.lastSaved,
		SelectedPlace: s.selectedPlace,
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	return state
}
