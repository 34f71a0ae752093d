package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/dbx"
	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	"github.com/dmitrijs2005/learnjournal/internal/server/models"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/streaks"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/tags"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/topics"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 2 * time.Hour
	return cfg
}

func fixedClock(day string) dayClock {
	t, err := time.Parse(time.RFC3339, day+"T15:04:05Z")
	if err != nil {
		panic(err)
	}
	return dayClock{now: func() time.Time { return t }, loc: time.UTC}
}

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%d", prefix, idSeq.n)
}

// fakeRepos is an in-memory RepositoryManager. Repositories ignore the
// DBTX they are bound to.
type fakeRepos struct {
	users     *fakeUsers
	tokens    *fakeTokens
	entries   *fakeEntries
	topics    *fakeTopics
	tags      *fakeTags
	streaks   *fakeStreaks
	favorites *fakeFavorites
	subs      *fakeSubs
}

func newFakeRepos() *fakeRepos {
	tg := &fakeTags{byID: map[string]*models.Tag{}}
	tp := &fakeTopics{byID: map[string]*models.Topic{}}
	return &fakeRepos{
		users:     &fakeUsers{byEmail: map[string]*models.User{}},
		tokens:    &fakeTokens{byToken: map[string]*models.RefreshToken{}},
		entries:   &fakeEntries{byID: map[string]*models.Entry{}, tagIDs: map[string][]string{}, tags: tg, topics: tp},
		topics:    tp,
		tags:      tg,
		streaks:   &fakeStreaks{counts: map[string]map[string]int{}},
		favorites: &fakeFavorites{},
		subs:      &fakeSubs{},
	}
}

func (m *fakeRepos) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepos) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepos) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepos) Entries(dbx.DBTX) entries.Repository             { return m.entries }
func (m *fakeRepos) Topics(dbx.DBTX) topics.Repository               { return m.topics }
func (m *fakeRepos) Tags(dbx.DBTX) tags.Repository                   { return m.tags }
func (m *fakeRepos) Streaks(dbx.DBTX) streaks.Repository             { return m.streaks }
func (m *fakeRepos) Favorites(dbx.DBTX) favorites.Repository         { return m.favorites }
func (m *fakeRepos) Subscriptions(dbx.DBTX) subscriptions.Repository { return m.subs }

type fakeUsers struct {
	byEmail map[string]*models.User
	err     error
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = nextID("user")
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeTokens struct {
	byToken   map[string]*models.RefreshToken
	findErr   error
	deleteErr error
	createErr error
}

func (f *fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byToken[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.byToken[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byToken, token)
	return nil
}

func (f *fakeTokens) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.byToken {
		if t.Expires.Before(now) {
			delete(f.byToken, k)
			n++
		}
	}
	return n, nil
}

type fakeTopics struct {
	byID map[string]*models.Topic
}

func (f *fakeTopics) List(_ context.Context, userID string) ([]models.Topic, error) {
	out := []models.Topic{}
	for _, t := range f.byID {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTopics) Get(_ context.Context, userID, id string) (*models.Topic, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTopics) Create(_ context.Context, t *models.Topic) (*models.Topic, error) {
	t.ID = nextID("topic")
	cp := *t
	f.byID[t.ID] = &cp
	return t, nil
}

func (f *fakeTopics) Delete(_ context.Context, userID, id string) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTags struct {
	byID      map[string]*models.Tag
	createErr error
}

func (f *fakeTags) List(_ context.Context, userID string) ([]models.Tag, error) {
	out := []models.Tag{}
	for _, t := range f.byID {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTags) Get(_ context.Context, userID, id string) (*models.Tag, error) {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTags) GetByName(_ context.Context, userID, name string) (*models.Tag, error) {
	for _, t := range f.byID {
		if t.UserID == userID && t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTags) Create(ctx context.Context, t *models.Tag) (*models.Tag, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, err := f.GetByName(ctx, t.UserID, t.Name); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	t.ID = nextID("tag")
	cp := *t
	f.byID[t.ID] = &cp
	return t, nil
}

func (f *fakeTags) Delete(_ context.Context, userID, id string) error {
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeEntries struct {
	byID      map[string]*models.Entry
	tagIDs    map[string][]string
	tags      *fakeTags
	topics    *fakeTopics
	createErr error
}

func (f *fakeEntries) Create(_ context.Context, e *models.Entry) (*models.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = nextID("entry")
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	f.byID[e.ID] = &cp
	return e, nil
}

func (f *fakeEntries) Get(_ context.Context, userID, id string) (*models.Entry, error) {
	e, ok := f.byID[id]
	if !ok || e.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *e
	cp.Tags = []models.Tag{}
	cp.Topic = nil
	if cp.TopicID != nil {
		if t, ok := f.topics.byID[*cp.TopicID]; ok {
			tc := *t
			cp.Topic = &tc
		}
	}
	return &cp, nil
}

func (f *fakeEntries) List(ctx context.Context, userID string, filter models.EntryFilter) ([]*models.Entry, error) {
	out := []*models.Entry{}
	for id, e := range f.byID {
		if e.UserID != userID {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && e.Status != filter.Status {
			continue
		}
		if q := strings.ToLower(filter.Query); q != "" && !strings.Contains(strings.ToLower(e.Title), q) {
			continue
		}
		got, _ := f.Get(ctx, userID, id)
		out = append(out, got)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEntries) Update(_ context.Context, e *models.Entry) error {
	cur, ok := f.byID[e.ID]
	if !ok || cur.UserID != e.UserID {
		return common.ErrorNotFound
	}
	cp := *e
	cp.UpdatedAt = time.Now()
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEntries) Delete(_ context.Context, userID, id string) error {
	e, ok := f.byID[id]
	if !ok || e.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	delete(f.tagIDs, id)
	return nil
}

func (f *fakeEntries) SetTags(_ context.Context, entryID string, tagIDs []string) error {
	f.tagIDs[entryID] = slices.Clone(tagIDs)
	return nil
}

func (f *fakeEntries) TagsForEntry(_ context.Context, entryID string) ([]models.Tag, error) {
	out := []models.Tag{}
	for _, id := range f.tagIDs[entryID] {
		if t, ok := f.tags.byID[id]; ok {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeEntries) TagsByEntry(ctx context.Context, userID string) (map[string][]models.Tag, error) {
	out := map[string][]models.Tag{}
	for id, e := range f.byID {
		if e.UserID != userID || len(f.tagIDs[id]) == 0 {
			continue
		}
		out[id], _ = f.TagsForEntry(ctx, id)
	}
	return out, nil
}

type fakeStreaks struct {
	counts map[string]map[string]int
	err    error
}

func (f *fakeStreaks) Increment(_ context.Context, userID, date string) error {
	if f.err != nil {
		return f.err
	}
	if f.counts[userID] == nil {
		f.counts[userID] = map[string]int{}
	}
	f.counts[userID][date]++
	return nil
}

func (f *fakeStreaks) List(_ context.Context, userID string) ([]models.StreakRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.StreakRecord{}
	for d, c := range f.counts[userID] {
		out = append(out, models.StreakRecord{UserID: userID, Date: d, EntriesCount: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

type fakeFavorites struct {
	list []models.FavoriteQuestion
}

func (f *fakeFavorites) List(_ context.Context, userID string) ([]models.FavoriteQuestion, error) {
	out := []models.FavoriteQuestion{}
	for i := len(f.list) - 1; i >= 0; i-- {
		if f.list[i].UserID == userID {
			out = append(out, f.list[i])
		}
	}
	return out, nil
}

func (f *fakeFavorites) Create(_ context.Context, q *models.FavoriteQuestion) (*models.FavoriteQuestion, error) {
	q.ID = nextID("fav")
	q.CreatedAt = time.Now()
	f.list = append(f.list, *q)
	return q, nil
}

func (f *fakeFavorites) Delete(_ context.Context, userID, id string) error {
	for i, q := range f.list {
		if q.ID == id && q.UserID == userID {
			f.list = append(f.list[:i], f.list[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeSubs struct {
	list []models.PushSubscription
	// active is consulted by ListWithoutActivity: user ids with a record on the date.
	active map[string]bool
	err    error
}

func (f *fakeSubs) Upsert(_ context.Context, s *models.PushSubscription) (*models.PushSubscription, error) {
	for i, cur := range f.list {
		if cur.UserID == s.UserID && cur.Endpoint == s.Endpoint {
			f.list[i].P256dh, f.list[i].Auth = s.P256dh, s.Auth
			out := f.list[i]
			return &out, nil
		}
	}
	s.ID = nextID("sub")
	f.list = append(f.list, *s)
	return s, nil
}

func (f *fakeSubs) Delete(_ context.Context, userID, endpoint string) error {
	f.list = slices.DeleteFunc(f.list, func(s models.PushSubscription) bool {
		return s.UserID == userID && s.Endpoint == endpoint
	})
	return nil
}

func (f *fakeSubs) ListByUser(_ context.Context, userID string) ([]models.PushSubscription, error) {
	out := []models.PushSubscription{}
	for _, s := range f.list {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubs) ListWithoutActivity(_ context.Context, _ string) ([]models.PushSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.PushSubscription{}
	for _, s := range f.list {
		if !f.active[s.UserID] {
			out = append(out, s)
		}
	}
	return out, nil
}


// tagsOverride swaps the tags repository of a fakeRepos.
type tagsOverride struct {
	*fakeRepos
	tags tags.Repository
}

func (m *tagsOverride) Tags(dbx.DBTX) tags.Repository { return m.tags }
