package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewTopicService(db, newFakeRepos())
	ctx := context.Background()

	rust, err := s.Create(ctx, "u1", " Rust ", "")
	require.NoError(t, err)
	assert.Equal(t, "Rust", rust.Name)
	assert.Equal(t, models.DefaultTopicColor, rust.Color)

	_, err = s.Create(ctx, "u1", "Go", "#112233")
	require.NoError(t, err)

	_, err = s.Create(ctx, "u1", "  ", "")
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Go", list[0].Name)

	assert.ErrorIs(t, s.Delete(ctx, "u2", rust.ID), common.ErrorNotFound)
	require.NoError(t, s.Delete(ctx, "u1", rust.ID))
}

func TestTagService_NormalizesAndReuses(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepos()
	s := NewTagService(db, rm)
	ctx := context.Background()

	first, err := s.Create(ctx, "u1", "  GoLang ")
	require.NoError(t, err)
	assert.Equal(t, "golang", first.Name)

	again, err := s.Create(ctx, "u1", "golang")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := s.Create(ctx, "u2", "golang")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = s.Create(ctx, "u1", "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, "u1", first.ID))
}

// racingTags reports no existing tag on the first lookup, then loses the
// insert race to a concurrent writer.
type racingTags struct {
	*fakeTags
	lookups int
}

func (r *racingTags) GetByName(ctx context.Context, userID, name string) (*models.Tag, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, common.ErrorNotFound
	}
	return r.fakeTags.GetByName(ctx, userID, name)
}

func TestTagService_ConcurrentCreateReusesWinner(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepos()
	winner, err := rm.tags.Create(context.Background(), &models.Tag{UserID: "u1", Name: "go"})
	require.NoError(t, err)

	racing := &racingTags{fakeTags: rm.tags}
	s := NewTagService(db, &tagsOverride{fakeRepos: rm, tags: racing})

	got, err := s.Create(context.Background(), "u1", "Go")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, 2, racing.lookups)
}

func TestFavoriteService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := NewFavoriteService(db, newFakeRepos())
	ctx := context.Background()

	q := assistant.Question{
		ID:         1,
		Question:   "What is a goroutine?",
		Difficulty: assistant.DifficultyEasy,
		Category:   assistant.CategoryTechnical,
		WhyAsked:   "fundamentals",
	}
	first, err := s.Add(ctx, "u1", FavoriteInput{Question: q, SourceTopic: strPtr("Go")})
	require.NoError(t, err)
	assert.Equal(t, []string{}, first.KeyPoints)
	assert.Equal(t, "easy", first.Difficulty)

	q.Question = "Explain select"
	second, err := s.Add(ctx, "u1", FavoriteInput{Question: q, SourceTopic: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, second.SourceTopic)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	bad := q
	bad.Difficulty = "impossible"
	_, err = s.Add(ctx, "u1", FavoriteInput{Question: bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	bad = q
	bad.Question = ""
	_, err = s.Add(ctx, "u1", FavoriteInput{Question: bad})
	assert.ErrorIs(t, err, common.ErrValidation)

	assert.ErrorIs(t, s.Remove(ctx, "u2", first.ID), common.ErrorNotFound)
	require.NoError(t, s.Remove(ctx, "u1", first.ID))
}

func TestSubscriptionService(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepos()
	s := NewSubscriptionService(db, rm)
	ctx := context.Background()

	st, err := s.Status(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, st.Subscribed)

	in := SubscriptionInput{Endpoint: "https://push.example/abc"}
	in.Keys.P256dh, in.Keys.Auth = "k1", "a1"
	_, err = s.Subscribe(ctx, "u1", in)
	require.NoError(t, err)

	in.Keys.P256dh = "k2"
	_, err = s.Subscribe(ctx, "u1", in)
	require.NoError(t, err)
	require.Len(t, rm.subs.list, 1)
	assert.Equal(t, "k2", rm.subs.list[0].P256dh)

	st, err = s.Status(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &SubscriptionStatus{Subscribed: true, Endpoints: 1}, st)

	_, err = s.Subscribe(ctx, "u1", SubscriptionInput{Endpoint: "not a url"})
	assert.ErrorIs(t, err, common.ErrValidation)

	noKeys := SubscriptionInput{Endpoint: "https://push.example/other"}
	_, err = s.Subscribe(ctx, "u1", noKeys)
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "keys.p256dh", ve.Field)

	noKeys.Keys.P256dh = "k3"
	_, err = s.Subscribe(ctx, "u1", noKeys)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "keys.auth", ve.Field)
	require.Len(t, rm.subs.list, 1)

	assert.ErrorIs(t, s.Unsubscribe(ctx, "u1", ""), common.ErrValidation)
	require.NoError(t, s.Unsubscribe(ctx, "u1", "https://push.example/abc"))
	assert.Empty(t, rm.subs.list)
}
