package session_test

import (
	"context"
	"testing"
	"time"

	"bakery/internal/adapters/out/session"
	"bakery/internal/core/domain/model/kernel"
	"bakery/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	store     *session.RedisStore
}

func (suite *RedisStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
	suite.Require().NoError(suite.client.Ping(ctx).Err())

	logger, _ := test.NewNullLogger()
	suite.store = session.NewRedisStore(suite.client, logger)
}

func (suite *RedisStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *RedisStoreIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		_ = suite.client.Close()
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RedisStoreIntegrationTestSuite) TestRevoke_ExpiresWithTheToken() {
	ctx := context.Background()

	revoked, err := suite.store.IsRevoked(ctx, "jti-1")
	suite.Require().NoError(err)
	suite.False(revoked)

	suite.Require().NoError(suite.store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = suite.store.IsRevoked(ctx, "jti-1")
	suite.Require().NoError(err)
	suite.True(revoked)

	ttl, err := suite.client.TTL(ctx, "session:revoked:jti-1").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, 59*time.Minute)
}

func (suite *RedisStoreIntegrationTestSuite) TestRevoke_AlreadyExpiredTokenIsIgnored() {
	ctx := context.Background()

	suite.Require().NoError(suite.store.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

	revoked, err := suite.store.IsRevoked(ctx, "jti-old")
	suite.Require().NoError(err)
	suite.False(revoked)
}

func (suite *RedisStoreIntegrationTestSuite) TestPublishSubscribe_DeliversEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	events, stop, err := suite.store.Subscribe(ctx)
	suite.Require().NoError(err)
	defer stop()

	sent := ports.SessionEvent{
		Kind:   ports.SessionSignedOut,
		UserID: kernel.NewUUID(),
		At:     time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
	suite.Require().NoError(suite.store.Publish(ctx, sent))

	select {
	case got := <-events:
		suite.Equal(sent.Kind, got.Kind)
		suite.True(sent.UserID.IsEqual(got.UserID))
		suite.True(sent.At.Equal(got.At))
	case <-ctx.Done():
		suite.Fail("event was not delivered")
	}

	stop()
	_, open := <-events
	suite.False(open, "channel closes after stop")
}

func TestRedisStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreIntegrationTestSuite))
}
