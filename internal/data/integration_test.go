package data

import (
	"context"
	"fmt"
	"testing"
	"time"

	"oublog-audit/internal/conf"
	"oublog-audit/internal/domain"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// IntegrationTestSuite runs the repositories against postgres and redis containers.
type IntegrationTestSuite struct {
	suite.Suite
	ctx            context.Context
	pgContainer    *postgres.PostgresContainer
	redisContainer *tcredis.RedisContainer
	driver         *entsql.Driver
	redisClient    *redis.Client
	data           *Data
	repo           domain.CommentRepository
	logs           domain.LogStore
	cache          domain.ActivityCache
	uow            domain.UnitOfWork
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(s.T(), err)
	s.pgContainer = pgContainer

	// Start Redis container
	redisContainer, err := tcredis.Run(s.ctx,
		"redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(s.T(), err)
	s.redisContainer = redisContainer

	pgConnStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	redisEndpoint, err := redisContainer.Endpoint(s.ctx, "")
	require.NoError(s.T(), err)

	s.driver, err = entsql.Open(dialect.Postgres, pgConnStr)
	require.NoError(s.T(), err)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr: redisEndpoint,
	})

	s.data = NewDataFromClients(s.driver, s.redisClient)
	require.NoError(s.T(), s.data.Migrate(s.ctx))

	s.repo = NewCommentRepo(s.data, log.DefaultLogger)
	s.logs = NewLogStore(s.data, log.DefaultLogger)
	s.cache = NewActivityCache(s.redisClient, &conf.Data{
		Redis: &conf.Redis{ActivitySize: 3, ActivityTTL: "1m"},
	}, log.DefaultLogger)
	s.uow = NewUnitOfWork(s.data, newTestDispatcher(s.data), log.DefaultLogger)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.driver != nil {
		s.driver.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		s.pgContainer.Terminate(s.ctx)
	}
	if s.redisContainer != nil {
		s.redisContainer.Terminate(s.ctx)
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	seedBlog(s.T(), s.data)
}

func (s *IntegrationTestSuite) TearDownTest() {
	// Clean up data after each test
	for _, table := range Tables {
		query, args := s.data.builder().Delete(table.Name).Query()
		require.NoError(s.T(), s.driver.Exec(s.ctx, query, args, nil))
	}
	s.redisClient.FlushAll(s.ctx)
}

func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) TestFindByID() {
	c, err := s.repo.FindByID(s.ctx, 42)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.Location{PostID: 100, OublogID: 11, CMID: 5, ContextID: 900, CourseID: 3}, c.Location())
	assert.False(s.T(), c.IsDeleted())
}

func (s *IntegrationTestSuite) TestFindByID_NotFound() {
	_, err := s.repo.FindByID(s.ctx, 404)

	assert.ErrorIs(s.T(), err, domain.ErrCommentNotFound)
}

func (s *IntegrationTestSuite) TestDeleteInUnitOfWork() {
	c, err := s.repo.FindByID(s.ctx, 42)
	require.NoError(s.T(), err)

	err = s.uow.Do(s.ctx, func(ctx context.Context) error {
		if err := c.Delete(7); err != nil {
			return err
		}
		return s.repo.SaveDeletion(ctx, c)
	}, c)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, countRows(s.T(), s.data, "event_outbox"))

	reloaded, err := s.repo.FindByID(s.ctx, 42)
	require.NoError(s.T(), err)
	assert.True(s.T(), reloaded.IsDeleted())

	err = s.repo.SaveDeletion(s.ctx, c)
	assert.ErrorIs(s.T(), err, domain.ErrCommentAlreadyDeleted)
}

func (s *IntegrationTestSuite) TestLogStore() {
	rec := newTestRecord(s.T(), 42, 5, time.Now())
	require.NoError(s.T(), s.logs.Append(s.ctx, rec))
	require.NoError(s.T(), s.logs.Append(s.ctx, rec))

	records, total, err := s.logs.ListByContextInstance(s.ctx, 5, 0, 10)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
	require.Len(s.T(), records, 1)
	assert.Equal(s.T(), rec.EventID, records[0].EventID)
	assert.JSONEq(s.T(), string(rec.Other), string(records[0].Other))
}

func (s *IntegrationTestSuite) TestActivityCache_KeepsNewestEntries() {
	for i := 1; i <= 5; i++ {
		entry := domain.AuditEntry{EventID: fmt.Sprintf("evt-%d", i), ContextInstanceID: 5}
		require.NoError(s.T(), s.cache.Push(s.ctx, 5, entry))
	}

	entries, err := s.cache.Recent(s.ctx, 5, 10)

	require.NoError(s.T(), err)
	require.Len(s.T(), entries, 3)
	assert.Equal(s.T(), "evt-5", entries[0].EventID)
	assert.Equal(s.T(), "evt-3", entries[2].EventID)

	ttl, err := s.redisClient.TTL(s.ctx, "oublog:activity:5").Result()
	require.NoError(s.T(), err)
	assert.Greater(s.T(), ttl, time.Duration(0))
}

func (s *IntegrationTestSuite) TestActivityCache_Miss() {
	entries, err := s.cache.Recent(s.ctx, 77, 10)

	require.NoError(s.T(), err)
	assert.Empty(s.T(), entries)
}
