package queststate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
	apperrors "github.com/talesofclaude/quest-engine/internal/errors"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient *redis.Client
	mock       redismock.ClientMock
	repo       Repository
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.repo = NewRedisRepository(&RedisRepoConfig{Client: s.mockClient})
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) testSnapshot() *Snapshot {
	return &Snapshot{
		ID:        "snap-1",
		PlayerID:  "player-1",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		State: quest.EngineState{
			Quests: []quest.State{
				{
					ID:     "mq_01_anomaly",
					Status: quest.StatusInProgress,
					Objectives: []quest.ObjectiveState{
						{ID: "reach_site", CurrentProgress: 1, IsCompleted: true},
					},
					CurrentBranchID: "investigation",
				},
			},
			ActiveQuestIDs:     []string{"mq_01_anomaly"},
			CompletedQuestIDs:  []string{},
			FactionReputations: map[string]int{"order": 10},
		},
	}
}

func (s *RedisRepoTestSuite) TestPut() {
	ctx := context.Background()
	snapshot := s.testSnapshot()

	expectedData, err := json.Marshal(snapshot)
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectSet("queststate:snapshot:snap-1", string(expectedData), 0).SetVal("OK")
	s.mock.ExpectSAdd("queststate:player:player-1", "snap-1").SetVal(1)
	s.mock.ExpectSet("queststate:player:player-1:latest", "snap-1", 0).SetVal("OK")

	s.NoError(s.repo.Put(ctx, snapshot))

	// Dependency error
	s.mock.ExpectSet("queststate:snapshot:snap-1", string(expectedData), 0).SetErr(errors.New("redis error"))

	s.Error(s.repo.Put(ctx, snapshot))

	// Input validation
	s.Error(s.repo.Put(ctx, nil))
	s.Error(s.repo.Put(ctx, &Snapshot{ID: "snap-1"}))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	snapshot := s.testSnapshot()

	data, err := json.Marshal(snapshot)
	s.Require().NoError(err)

	s.mock.ExpectGet("queststate:snapshot:snap-1").SetVal(string(data))

	got, err := s.repo.Get(ctx, "snap-1")
	s.Require().NoError(err)
	s.Equal(snapshot.ID, got.ID)
	s.Equal(snapshot.PlayerID, got.PlayerID)
	s.Equal(snapshot.State.FactionReputations, got.State.FactionReputations)
	s.Require().Len(got.State.Quests, 1)
	s.Equal("investigation", got.State.Quests[0].CurrentBranchID)

	// Miss maps to a not-found error
	s.mock.ExpectGet("queststate:snapshot:missing").RedisNil()

	_, err = s.repo.Get(ctx, "missing")
	s.True(apperrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGetLatest() {
	ctx := context.Background()
	snapshot := s.testSnapshot()

	data, err := json.Marshal(snapshot)
	s.Require().NoError(err)

	s.mock.ExpectGet("queststate:player:player-1:latest").SetVal("snap-1")
	s.mock.ExpectGet("queststate:snapshot:snap-1").SetVal(string(data))

	got, err := s.repo.GetLatest(ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("snap-1", got.ID)

	// Player with no saves
	s.mock.ExpectGet("queststate:player:nobody:latest").RedisNil()

	_, err = s.repo.GetLatest(ctx, "nobody")
	s.True(apperrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestListByPlayer() {
	ctx := context.Background()
	snapshot := s.testSnapshot()

	data, err := json.Marshal(snapshot)
	s.Require().NoError(err)

	s.mock.ExpectSMembers("queststate:player:player-1").SetVal([]string{"snap-1"})
	s.mock.ExpectGet("queststate:snapshot:snap-1").SetVal(string(data))

	snapshots, err := s.repo.ListByPlayer(ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(snapshots, 1)
	s.Equal("snap-1", snapshots[0].ID)
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()
	snapshot := s.testSnapshot()

	data, err := json.Marshal(snapshot)
	s.Require().NoError(err)

	s.mock.ExpectGet("queststate:snapshot:snap-1").SetVal(string(data))
	s.mock.ExpectDel("queststate:snapshot:snap-1").SetVal(1)
	s.mock.ExpectSRem("queststate:player:player-1", "snap-1").SetVal(1)

	s.NoError(s.repo.Delete(ctx, "snap-1"))

	// Deleting a missing snapshot surfaces not-found
	s.mock.ExpectGet("queststate:snapshot:missing").RedisNil()

	s.True(apperrors.IsNotFound(s.repo.Delete(ctx, "missing")))
}
