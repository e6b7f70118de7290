package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
)

func newTestStore() *Store {
	return NewStore(&config.SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute})
}

func TestStoreCreateAndGet(t *testing.T) {
	store := newTestStore()

	sess := store.Create()
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.NotNil(t, sess.Saved.Filter.Inclusive)
	assert.Empty(t, sess.Saved.Data)
	assert.False(t, sess.PendingEdits)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, 1, store.Len())
}

func TestStoreGetUnknown(t *testing.T) {
	store := newTestStore()
	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestStoreGetReturnsSnapshot(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	snap, err := store.Get(sess.ID)
	require.NoError(t, err)
	// Mutating the snapshot must not leak into the store.
	snap.Saved.Data = append(snap.Saved.Data, domain.Place{Name: "leak"})

	fresh, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, fresh.Saved.Data)
}

func TestStoreUpdateBumpsUpdatedAt(t *testing.T) {
	store := newTestStore()
	sess := store.Create()
	before := sess.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := store.Update(sess.ID, func(s *domain.Session) error {
		SetExtractedText(s, "some text")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before))
	assert.Equal(t, "some text", updated.ExtractedText)
}

func TestStoreUpdateErrorLeavesSessionUntouched(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		return domain.ErrIndexOutOfRange
	})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore()
	sess := store.Create()
	store.Delete(sess.ID)

	_, err := store.Get(sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestEvictExpired(t *testing.T) {
	store := newTestStore()
	fresh := store.Create()
	stale := store.Create()

	// Backdate one session past the TTL.
	store.mu.Lock()
	store.sessions[stale.ID].UpdatedAt = time.Now().UTC().Add(-2 * time.Hour)
	store.mu.Unlock()

	evicted := store.evictExpired(time.Now().UTC())
	assert.Equal(t, 1, evicted)

	_, err := store.Get(stale.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestThreeSlotLifecycle(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	saved := domain.NewMapDocument()
	saved.Name = "v1"
	saved.Data = []domain.Place{{Name: "A"}}

	// Save the initial document, then start editing.
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		SetSaved(s, saved)
		StartEditing(s)
		return nil
	})
	require.NoError(t, err)

	// Mutate the editing slot only.
	cur, err := store.Update(sess.ID, func(s *domain.Session) error {
		return UpdateEditingPlace(s, 0, domain.Place{Name: "A renamed"})
	})
	require.NoError(t, err)
	assert.True(t, cur.PendingEdits)
	assert.Equal(t, "A renamed", cur.Editing.Data[0].Name)
	assert.Equal(t, "A", cur.Saved.Data[0].Name, "saved slot must stay untouched")

	// Discard: editing resets from saved.
	cur, err = store.Update(sess.ID, func(s *domain.Session) error {
		DiscardEdits(s)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, cur.PendingEdits)
	assert.Equal(t, "A", cur.Editing.Data[0].Name)

	// Edit again and apply: saved takes the editing copy.
	cur, err = store.Update(sess.ID, func(s *domain.Session) error {
		if err := UpdateEditingPlace(s, 0, domain.Place{Name: "A final"}); err != nil {
			return err
		}
		ApplyEdits(s)
		return nil
	})
	require.NoError(t, err)
	assert.False(t, cur.PendingEdits)
	assert.Equal(t, "A final", cur.Saved.Data[0].Name)
	assert.Equal(t, "A final", cur.Editing.Data[0].Name)
}

func TestSetSavedNormalizes(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	doc := domain.NewMapDocument()
	doc.Data = []domain.Place{{Name: "  A  ", WebLink: "ab.com", Tags: []string{" x ", ""}}}

	cur, err := store.Update(sess.ID, func(s *domain.Session) error {
		SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "A", cur.Saved.Data[0].Name)
	assert.Equal(t, "https://ab.com", cur.Saved.Data[0].WebLink)
	assert.Equal(t, []string{"x"}, cur.Saved.Data[0].Tags)
}

func TestPlaceIndexOperations(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		AddEditingPlace(s, domain.Place{Name: "one"})
		AddEditingPlace(s, domain.Place{Name: "two"})
		return nil
	})
	require.NoError(t, err)

	_, err = store.Update(sess.ID, func(s *domain.Session) error {
		return RemoveEditingPlace(s, 5)
	})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	cur, err := store.Update(sess.ID, func(s *domain.Session) error {
		return RemoveEditingPlace(s, 0)
	})
	require.NoError(t, err)
	require.Len(t, cur.Editing.Data, 1)
	assert.Equal(t, "two", cur.Editing.Data[0].Name)
}

func TestResetAll(t *testing.T) {
	store := newTestStore()
	sess := store.Create()

	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		SetExtractedText(s, "text")
		AddEditingPlace(s, domain.Place{Name: "p"})
		return nil
	})
	require.NoError(t, err)

	cur, err := store.Update(sess.ID, func(s *domain.Session) error {
		ResetAll(s)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, cur.ExtractedText)
	assert.Empty(t, cur.Editing.Data)
	assert.Empty(t, cur.Saved.Data)
	assert.False(t, cur.PendingEdits)
}
