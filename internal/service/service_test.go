package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"store-rating/internal/core/database"
	"store-rating/internal/domain"
	"store-rating/internal/repo"
	"store-rating/internal/service"
	"store-rating/pkg/utils"
)

func init() { utils.Cost = bcrypt.MinCost }

type fakeIssuer struct{}

func (fakeIssuer) Issue(uid uint64, role string) (string, error) {
	return fmt.Sprintf("tok-%d-%s", uid, role), nil
}

// memCache counts invalidations so tests can assert writes drop keys.
type memCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	invalidated map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, invalidated: map[string]int{}}
}

func (m *memCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return b, nil
}

func (m *memCache) Invalidate(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		m.invalidated[k]++
	}
	return nil
}

type fixture struct {
	users     *service.UserService
	stores    *service.StoreService
	ratings   *service.RatingService
	dashboard *service.DashboardService
	cache     *memCache
	admin     domain.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	ur, sr, rr := repo.NewUserRepo(db), repo.NewStoreRepo(db), repo.NewRatingRepo(db)
	c := newMemCache()
	l := zap.NewNop()
	f := &fixture{
		users:     service.NewUserService(ur, fakeIssuer{}, c, l),
		stores:    service.NewStoreService(sr, rr, c, time.Minute, l),
		ratings:   service.NewRatingService(rr, sr, c, l),
		dashboard: service.NewDashboardService(ur, sr, rr, c, time.Minute, l),
		cache:     c,
	}

	created, err := f.users.EnsureAdmin(context.Background(), service.SignupInput{
		Name: "Platform Administrator One", Email: "admin@example.com", Password: "adminpw",
	})
	require.NoError(t, err)
	require.True(t, created)
	id, err := f.users.Authenticate(context.Background(), "admin@example.com", "adminpw")
	require.NoError(t, err)
	f.admin = id
	return f
}

func (f *fixture) signup(t *testing.T, email string) domain.Identity {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: email, Password: "pw123", Address: "1 Main St",
	})
	require.NoError(t, err)
	id, err := f.users.Authenticate(ctx, email, "pw123")
	require.NoError(t, err)
	return id
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, service.SignupInput{Name: "Jon", Email: "a@x.io", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualError(t, err, "Name must be 20-60 chars")

	long := make([]rune, 401)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: "a@x.io", Password: "p", Address: string(long),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.users.Register(ctx, service.SignupInput{Name: "Jonathan Alexander Smith", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: "long@x.io", Password: strings.Repeat("p", 80),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrStorage)

	page, err := f.users.List(ctx, f.admin, "long@x.io", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: "edge@x.io", Password: strings.Repeat("p", utils.MaxPasswordBytes),
	})
	assert.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: "Jon@Example.com ", Password: "pw123", Address: "1 Main St",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = f.users.Register(ctx, service.SignupInput{
		Name: "Jonathan Alexander Smith", Email: "jon@example.com", Password: "other",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	res, err := f.users.Login(ctx, "jon@example.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.Role)
	assert.Equal(t, fmt.Sprintf("tok-%d-user", id), res.Token)

	_, err = f.users.Login(ctx, "jon@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAuth)

	_, err = f.users.Login(ctx, "ghost@example.com", "pw123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	created, err := f.users.EnsureAdmin(context.Background(), service.SignupInput{
		Name: "Platform Administrator One", Email: "ADMIN@example.com", Password: "changed",
	})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = f.users.Authenticate(context.Background(), "admin@example.com", "adminpw")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, f.admin.Role)
}

func TestCreateAdminRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "jon@example.com")

	in := service.SignupInput{Name: "Second Administrator Acct", Email: "admin2@example.com", Password: "pw"}
	_, err := f.users.CreateAdmin(ctx, u, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.CreateAdmin(ctx, f.admin, in)
	require.NoError(t, err)
	res, err := f.users.Login(ctx, "admin2@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Role)

	page, err := f.users.List(ctx, f.admin, "", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	_, err = f.users.List(ctx, u, "", 0, 10)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStoreCreateForbiddenLeavesNoState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "jon@example.com")

	_, err := f.stores.Create(ctx, u, service.StoreInput{Name: "Sneaky Shop"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := f.stores.List(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.stores.Create(ctx, f.admin, service.StoreInput{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRatingsAggregateAndMyRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := f.signup(t, "one@example.com")
	u2 := f.signup(t, "two@example.com")

	sid, err := f.stores.Create(ctx, f.admin, service.StoreInput{Name: "Corner Bakery", Email: "bake@example.com"})
	require.NoError(t, err)

	list, err := f.stores.List(ctx, u1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].AvgRating)
	assert.Nil(t, list[0].MyRating)

	require.NoError(t, f.ratings.Upsert(ctx, u1, sid, 3))
	require.NoError(t, f.ratings.Upsert(ctx, u2, sid, 5))

	list, err = f.stores.List(ctx, u1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].AvgRating)
	assert.InDelta(t, 4.0, *list[0].AvgRating, 1e-9)
	require.NotNil(t, list[0].MyRating)
	assert.Equal(t, 3, *list[0].MyRating)

	// last write wins
	require.NoError(t, f.ratings.Upsert(ctx, u1, sid, 1))
	list, err = f.stores.List(ctx, u2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, *list[0].AvgRating, 1e-9)
	assert.Equal(t, 5, *list[0].MyRating)

	stats, err := f.dashboard.Stats(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{Users: 3, Stores: 1, Ratings: 2}, stats)

	mine, err := f.ratings.Mine(ctx, u1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 1, mine[0].Value)
}

func TestRatingUpsertErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "jon@example.com")
	sid, err := f.stores.Create(ctx, f.admin, service.StoreInput{Name: "Corner Bakery"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.ratings.Upsert(ctx, u, sid, 0), domain.ErrValidation)
	assert.ErrorIs(t, f.ratings.Upsert(ctx, u, sid, 6), domain.ErrValidation)
	assert.ErrorIs(t, f.ratings.Upsert(ctx, u, sid+100, 4), domain.ErrNotFound)
	assert.ErrorIs(t, f.ratings.Upsert(ctx, domain.Identity{}, sid, 4), domain.ErrAuth)
}

func TestWritesInvalidateCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "jon@example.com")

	_, err := f.dashboard.Stats(ctx, f.admin)
	require.NoError(t, err)
	before := f.cache.invalidated[service.KeyStoreAggregate]

	sid, err := f.stores.Create(ctx, f.admin, service.StoreInput{Name: "Corner Bakery"})
	require.NoError(t, err)
	require.NoError(t, f.ratings.Upsert(ctx, u, sid, 4))
	assert.Equal(t, before+2, f.cache.invalidated[service.KeyStoreAggregate])

	stats, err := f.dashboard.Stats(ctx, f.admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Stores)
	assert.EqualValues(t, 1, stats.Ratings)

	_, err = f.dashboard.Stats(ctx, u)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type failingUsers struct{ domain.UserRepository }

func (failingUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.Storage("load user failed", errors.New("db down"))
}

func TestStorageErrorsPropagate(t *testing.T) {
	s := service.NewUserService(failingUsers{}, fakeIssuer{}, nil, nil)
	_, err := s.Login(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, domain.ErrStorage)
}
