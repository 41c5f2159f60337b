package trips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/notebook"
	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

func testDocument() *models.BlockDocument {
	return &models.BlockDocument{
		Version: models.BlockDocumentVersion,
		Blocks: []models.Block{
			{ID: "d1", Type: models.BlockTypeDay, Data: models.DayData{DayNumber: 1, Title: "Arrival"}},
			{ID: "p1", Type: models.BlockTypePlace, Data: models.PlaceData{UID: "place_1_1", Name: "Senso-ji Temple", Latitude: 35.7148, Longitude: 139.7967}},
		},
	}
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock, nil)
}

func TestSaveInsertsNewItinerary(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	newID := uuid.New()
	savedAt := time.Now()
	doc := testDocument()
	contentHash := notebook.Hash(doc)

	mock.ExpectQuery("INSERT INTO itineraries").
		WithArgs(userID, "Tokyo Highlights", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), contentHash).
		WillReturnRows(pgxmock.NewRows([]string{"id", "updated_at"}).AddRow(newID, savedAt))

	result, err := repo.Save(context.Background(), userID, &models.SaveItineraryRequest{
		Title:      "Tokyo Highlights",
		EditorData: doc,
	}, contentHash)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, result.Unchanged)
	assert.Equal(t, newID, result.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUnchangedContentSkipsUpdate(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()
	updatedAt := time.Now().Add(-time.Hour)
	doc := testDocument()
	contentHash := notebook.Hash(doc)

	mock.ExpectQuery("SELECT content_hash, updated_at FROM itineraries").
		WithArgs(itineraryID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"content_hash", "updated_at"}).AddRow(contentHash, updatedAt))

	result, err := repo.Save(context.Background(), userID, &models.SaveItineraryRequest{
		ID:         &itineraryID,
		Title:      "Tokyo Highlights",
		EditorData: doc,
	}, contentHash)

	require.NoError(t, err)
	assert.True(t, result.Unchanged)
	assert.Equal(t, updatedAt, result.SavedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveFlagsResolvedConflict(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()
	clientLastSaved := time.Now().Add(-time.Hour)
	storedUpdatedAt := time.Now().Add(-time.Minute)
	doc := testDocument()
	contentHash := notebook.Hash(doc)

	mock.ExpectQuery("SELECT content_hash, updated_at FROM itineraries").
		WithArgs(itineraryID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"content_hash", "updated_at"}).AddRow("stale-hash", storedUpdatedAt))

	savedAt := time.Now()
	mock.ExpectQuery("UPDATE itineraries").
		WithArgs(itineraryID, userID, "Tokyo Highlights", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), contentHash).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(savedAt))

	result, err := repo.Save(context.Background(), userID, &models.SaveItineraryRequest{
		ID:         &itineraryID,
		Title:      "Tokyo Highlights",
		EditorData: doc,
		LastSaved:  clientLastSaved,
	}, contentHash)

	require.NoError(t, err)
	assert.True(t, result.ConflictResolved)
	assert.Equal(t, savedAt, result.SavedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUnknownItineraryIsNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()
	doc := testDocument()

	mock.ExpectQuery("SELECT content_hash, updated_at FROM itineraries").
		WithArgs(itineraryID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Save(context.Background(), userID, &models.SaveItineraryRequest{
		ID:         &itineraryID,
		EditorData: doc,
	}, notebook.Hash(doc))

	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadDecodesStoredItinerary(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()
	doc := testDocument()
	contentHash := notebook.Hash(doc)
	createdAt := time.Now().Add(-24 * time.Hour)
	updatedAt := time.Now()

	editorData := []byte(`{"version":"2.28.2","time":0,"blocks":[{"id":"d1","type":"day","data":{"dayNumber":1,"title":"Arrival"}}]}`)
	metadata := []byte(`{"destination":"Tokyo","totalDays":2}`)

	mock.ExpectQuery("SELECT id, user_id, title, editor_data").
		WithArgs(itineraryID, userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "title", "editor_data", "directions", "metadata", "content_hash", "created_at", "updated_at",
		}).AddRow(itineraryID, userID, "Tokyo Highlights", editorData, []byte(nil), metadata, contentHash, createdAt, updatedAt))

	stored, err := repo.Load(context.Background(), userID, itineraryID)
	require.NoError(t, err)

	assert.Equal(t, itineraryID, stored.ID)
	assert.Equal(t, "Tokyo Highlights", stored.Title)
	require.NotNil(t, stored.EditorData)
	require.Len(t, stored.EditorData.Blocks, 1)
	day, ok := stored.EditorData.Blocks[0].Data.(models.DayData)
	require.True(t, ok)
	assert.Equal(t, "Arrival", day.Title)
	require.NotNil(t, stored.Metadata)
	assert.Equal(t, "Tokyo", stored.Metadata.Destination)
	assert.Nil(t, stored.Directions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadMissingItinerary(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()

	mock.ExpectQuery("SELECT id, user_id, title, editor_data").
		WithArgs(itineraryID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Load(context.Background(), userID, itineraryID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersBySearchTerm(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	id := uuid.New()
	updatedAt := time.Now()

	// squirrel passes sq.Eq values through driver.Valuer, so the uuid
	// reaches the pool as its string form.
	mock.ExpectQuery("SELECT id, title, metadata, updated_at FROM itineraries").
		WithArgs(userID.String(), "%tokyo%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "metadata", "updated_at"}).
			AddRow(id, "Tokyo Highlights", []byte(`{"destination":"Tokyo","totalDays":3}`), updatedAt))

	summaries, err := repo.List(context.Background(), userID, "tokyo")
	require.NoError(t, err)

	require.Len(t, summaries, 1)
	assert.Equal(t, "Tokyo Highlights", summaries[0].Title)
	assert.Equal(t, "Tokyo", summaries[0].Destination)
	assert.Equal(t, 3, summaries[0].TotalDays)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReportsMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	userID := uuid.New()
	itineraryID := uuid.New()

	mock.ExpectExec("DELETE FROM itineraries").
		WithArgs(itineraryID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), userID, itineraryID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	mock.ExpectExec("DELETE FROM itineraries").
		WithArgs(itineraryID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), userID, itineraryID))
	require.NoError(t, mock.ExpectationsWereMet())
}
