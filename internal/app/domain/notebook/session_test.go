package notebook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

type fakeStore struct {
	mu        sync.Mutex
	saves     int
	loads     int
	saveErr   error
	loadErr   error
	unchanged bool
	stored    *models.StoredItinerary
	lastReq   *models.SaveItineraryRequest
	savedID   uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{savedID: uuid.New()}
}

func (f *fakeStore) Save(_ context.Context, _ uuid.UUID, req *models.SaveItineraryRequest) (*models.SaveItineraryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.lastReq = req
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	id := f.savedID
	if req.ID != nil {
		id = *req.ID
	}
	return &models.SaveItineraryResult{
		ID:        id,
		Success:   true,
		Unchanged: f.unchanged,
		SavedAt:   time.Now(),
	}, nil
}

func (f *fakeStore) Load(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*models.StoredItinerary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeStore) setSaveErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

func editedDocument(name string) *models.BlockDocument {
	doc := sampleDocument()
	place := doc.Blocks[2].Data.(models.PlaceData)
	place.Name = name
	doc.Blocks[2].Data = place
	return doc
}

func newTestSession(store PersistenceClient, debounce time.Duration) *Session {
	return NewSession(uuid.New(), store, debounce, nil)
}

func TestSetEditorDataDirtyOnlyOnContentChange(t *testing.T) {
	session := newTestSession(newFakeStore(), time.Hour)
	defer session.Close()

	session.SetEditorData(sampleDocument())
	assert.True(t, session.Snapshot().Dirty)

	// Re-applying a content-identical document (fresh block ids) clears the
	// dirty flag: nothing new needs persisting.
	session.SetEditorData(sampleDocument())
	assert.False(t, session.Snapshot().Dirty)

	session.SetEditorData(editedDocument("Meiji Shrine"))
	assert.True(t, session.Snapshot().Dirty)
}

func TestUpdateEditorDataAlwaysDirty(t *testing.T) {
	session := newTestSession(newFakeStore(), time.Hour)
	defer session.Close()

	session.UpdateEditorData(sampleDocument())
	assert.True(t, session.Snapshot().Dirty)

	session.UpdateEditorData(sampleDocument())
	assert.True(t, session.Snapshot().Dirty)
}

func TestDebouncedAutoSave(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, 20*time.Millisecond)
	defer session.Close()

	session.UpdateEditorData(sampleDocument())

	require.Eventually(t, func() bool { return store.saveCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	state := session.Snapshot()
	assert.False(t, state.Dirty)
	assert.False(t, state.Saving)
	require.NotNil(t, state.ItineraryID)
	assert.Equal(t, store.savedID, *state.ItineraryID)
	assert.False(t, state.LastSaved.IsZero())
}

func TestDebounceCoalescesRapidEdits(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, 50*time.Millisecond)
	defer session.Close()

	session.UpdateEditorData(sampleDocument())
	time.Sleep(10 * time.Millisecond)
	session.UpdateEditorData(editedDocument("Meiji Shrine"))
	time.Sleep(10 * time.Millisecond)
	session.UpdateEditorData(editedDocument("Ghibli Museum"))

	require.Eventually(t, func() bool { return store.saveCount() >= 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, store.saveCount())
	store.mu.Lock()
	saved := store.lastReq.EditorData
	store.mu.Unlock()
	assert.Equal(t, Hash(editedDocument("Ghibli Museum")), Hash(saved))
}

func TestFlushFailureKeepsDirty(t *testing.T) {
	store := newFakeStore()
	store.setSaveErr(models.ErrPersistence)
	session := newTestSession(store, time.Hour)
	defer session.Close()

	session.UpdateEditorData(sampleDocument())

	err := session.Flush(context.Background())
	require.Error(t, err)

	state := session.Snapshot()
	assert.True(t, state.Dirty)
	assert.False(t, state.Saving)
	assert.NotEmpty(t, state.LastError)

	// The manual retry path succeeds once the store recovers.
	store.setSaveErr(nil)
	require.NoError(t, session.Flush(context.Background()))

	state = session.Snapshot()
	assert.False(t, state.Dirty)
	assert.Empty(t, state.LastError)
}

func TestFlushCleanSessionIsNoop(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, time.Hour)
	defer session.Close()

	require.NoError(t, session.Flush(context.Background()))
	assert.Equal(t, 0, store.saveCount())
}

func TestUnchangedSaveDoesNotMoveLastSaved(t *testing.T) {
	store := newFakeStore()
	itineraryID := uuid.New()
	savedAt := time.Now().Add(-time.Hour)
	store.stored = &models.StoredItinerary{
		ID:          itineraryID,
		Title:       "Tokyo Highlights",
		EditorData:  sampleDocument(),
		LastUpdated: savedAt,
	}

	session := newTestSession(store, time.Hour)
	defer session.Close()
	require.NoError(t, session.Load(context.Background(), itineraryID))

	// Retyped-identical edit: dirty despite an unchanged content hash.
	session.UpdateEditorData(sampleDocument())
	require.True(t, session.Snapshot().Dirty)

	store.mu.Lock()
	store.unchanged = true
	store.mu.Unlock()

	require.NoError(t, session.Flush(context.Background()))

	state := session.Snapshot()
	assert.False(t, state.Dirty)
	assert.Equal(t, savedAt.Unix(), state.LastSaved.Unix())
}

func TestLoadFailureKeepsPreviousData(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, time.Hour)
	defer session.Close()

	session.SetEditorData(sampleDocument())
	before := session.Snapshot()

	store.mu.Lock()
	store.loadErr = models.ErrNotFound
	store.mu.Unlock()

	err := session.Load(context.Background(), uuid.New())
	require.Error(t, err)

	after := session.Snapshot()
	assert.Equal(t, PhaseReady, after.Phase)
	assert.Equal(t, before.ContentHash, after.ContentHash)
	require.NotNil(t, after.EditorData)
}

func TestLoadFailureWithoutDataIsErrorPhase(t *testing.T) {
	store := newFakeStore()
	store.loadErr = models.ErrNotFound
	session := newTestSession(store, time.Hour)
	defer session.Close()

	require.Error(t, session.Load(context.Background(), uuid.New()))
	assert.Equal(t, PhaseError, session.Snapshot().Phase)
}

func TestClearItineraryResetsEverything(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, time.Hour)
	defer session.Close()

	session.SetEditorData(sampleDocument())
	session.SetMetadata("Tokyo Highlights", &models.TripMetadata{Destination: "Tokyo", TotalDays: 2})
	session.SelectPlace("place_1_1")

	session.ClearItinerary()

	state := session.Snapshot()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Nil(t, state.EditorData)
	assert.Nil(t, state.ItineraryID)
	assert.Empty(t, state.ContentHash)
	assert.Empty(t, state.SelectedPlace)
	assert.False(t, state.Dirty)
}

func TestSelectPlaceDoesNotDirty(t *testing.T) {
	session := newTestSession(newFakeStore(), time.Hour)
	defer session.Close()

	session.SetEditorData(sampleDocument())
	require.NoError(t, session.Flush(context.Background()))
	require.False(t, session.Snapshot().Dirty)

	session.SelectPlace("place_1_1")
	state := session.Snapshot()
	assert.Equal(t, "place_1_1", state.SelectedPlace)
	assert.False(t, state.Dirty)
}

func TestClosedSessionIgnoresEdits(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, 10*time.Millisecond)

	session.Close()
	session.UpdateEditorData(sampleDocument())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
	assert.Nil(t, session.Snapshot().EditorData)
}

func TestCloseCancelsPendingAutoSave(t *testing.T) {
	store := newFakeStore()
	session := newTestSession(store, 50*time.Millisecond)

	session.UpdateEditorData(sampleDocument())
	session.Close()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}

func TestManagerReturnsSameSessionPerUser(t *testing.T) {
	manager := NewManager(newFakeStore(), time.Hour, time.Minute, nil)

	alice := uuid.New()
	bob := uuid.New()

	first := manager.Get(alice)
	assert.Same(t, first, manager.Get(alice))
	assert.NotSame(t, first, manager.Get(bob))

	manager.Remove(alice)
	assert.NotSame(t, first, manager.Get(alice))
}
