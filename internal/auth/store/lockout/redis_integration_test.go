//go:build integration

package lockout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"petadopt/internal/auth/store/lockout"
	"petadopt/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *lockout.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = lockout.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushDB(context.Background()).Err())
}

func (s *RedisStoreSuite) TestRecordAndReset() {
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		n, err := s.store.RecordFailure(ctx, "ana@example.com", time.Minute)
		s.Require().NoError(err)
		s.Equal(i, n)
	}

	n, err := s.store.Failures(ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Equal(3, n)

	ttl, err := s.redis.Client.TTL(ctx, "login:fail:ana@example.com").Result()
	s.Require().NoError(err)
	s.Positive(ttl)
	s.LessOrEqual(ttl, time.Minute)

	s.Require().NoError(s.store.Reset(ctx, "ana@example.com"))
	n, err = s.store.Failures(ctx, "ana@example.com")
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *RedisStoreSuite) TestWindowExpires() {
	ctx := context.Background()
	_, err := s.store.RecordFailure(ctx, "short", 200*time.Millisecond)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		n, err := s.store.Failures(ctx, "short")
		return err == nil && n == 0
	}, 3*time.Second, 50*time.Millisecond)
}
