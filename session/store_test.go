package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptrefiner/models"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)
	sess := store.Create()

	require.NotEmpty(t, sess.ID)
	require.NotEmpty(t, sess.CSRFToken)
	assert.NotEqual(t, sess.ID, sess.CSRFToken)

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess, got)

	_, ok = store.Get("")
	assert.False(t, ok)
	_, ok = store.Get("unknown")
	assert.False(t, ok)
}

func TestLastRefinedLastWriteWins(t *testing.T) {
	store := NewStore(time.Hour)
	sess := store.Create()

	_, ok := store.LastRefined(sess.ID)
	assert.False(t, ok)

	first := models.LastRefinedRecord{Original: "a", Refined: "b", Rationale: "c", Timestamp: time.Now()}
	second := models.LastRefinedRecord{Original: "d", Refined: "e", Rationale: "f", Timestamp: time.Now()}
	store.SaveLastRefined(sess.ID, first)
	store.SaveLastRefined(sess.ID, second)

	got, ok := store.LastRefined(sess.ID)
	require.True(t, ok)
	assert.Equal(t, second, got)

	after, _ := store.Get(sess.ID)
	assert.Equal(t, sess.CSRFToken, after.CSRFToken)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour)
	a, b := store.Create(), store.Create()
	store.SaveLastRefined(a.ID, models.LastRefinedRecord{Refined: "only a"})

	_, ok := store.LastRefined(b.ID)
	assert.False(t, ok)
	assert.Equal(t, 2, store.Count())
}

func TestSessionExpires(t *testing.T) {
	store := NewStore(20 * time.Millisecond)
	sess := store.Create()
	time.Sleep(50 * time.Millisecond)

	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}

func TestConcurrentSaves(t *testing.T) {
	store := NewStore(time.Hour)
	sess := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.SaveLastRefined(sess.ID, models.LastRefinedRecord{Refined: strings.Repeat("x", i+1)})
		}(i)
	}
	wg.Wait()

	got, ok := store.LastRefined(sess.ID)
	require.True(t, ok)
	assert.NotEmpty(t, got.Refined)
}

func TestFormatDownload(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.UTC)
	record := models.LastRefinedRecord{Original: "orig", Refined: "ref", Rationale: "why", Timestamp: ts}

	want := "# Refined Prompt\nGenerated on: 2024-03-09T14:05:07.123456\n\n## Original Prompt:\norig\n\n## Refined Prompt:\nref\n\n## Rationale:\nwhy\n"
	assert.Equal(t, want, FormatDownload(record))
	assert.Equal(t, "refined_prompt_20240309_140507.txt", DownloadFilename(ts))
}
