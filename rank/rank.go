package rank

import (
	"strconv"

	"github.com/go-redis/redis"
)

// rankKey is the redis sorted set mirroring the posts' like counters.
const rankKey = "rank:post:likes"

// Service keeps a best-effort popularity ranking of posts in a redis
// sorted set. The database counter is the source of truth; this set only
// feeds the top-N endpoint, so a missed bump is harmless and never
// consulted for the like-counter invariant.
type Service struct {
	rdb *redis.Client
}

// NewService returns a ranking service on the given client.
// A nil client yields a disabled service whose methods are no-ops.
func NewService(rdb *redis.Client) *Service {
	return &Service{rdb: rdb}
}

// Enabled reports whether a redis client is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.rdb != nil
}

// Bump adjusts a post's score by delta (+1 on like, -1 on unlike).
// Failures are returned but callers treat them as best-effort.
func (s *Service) Bump(postID int, delta float64) error {
	if !s.Enabled() {
		return nil
	}
	return s.rdb.ZIncrBy(rankKey, delta, strconv.Itoa(postID)).Err()
}

// Entry is one row of the popularity ranking.
type Entry struct {
	PostID int   `json:"post_id"`
	Likes  int64 `json:"likes"`
	Rank   int   `json:"rank"`
}

// Top returns the n most liked posts from the redis ranking,
// most liked first. A missing key yields an empty list.
func (s *Service) Top(n int) ([]Entry, error) {
	if !s.Enabled() {
		return []Entry{}, nil
	}
	if n <= 0 {
		n = 10
	}
	zres, err := s.rdb.ZRevRangeWithScores(rankKey, 0, int64(n-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return []Entry{}, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(zres))
	for i, z := range zres {
		member, _ := z.Member.(string)
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			PostID: id,
			Likes:  int64(z.Score),
			Rank:   i + 1,
		})
	}
	return entries, nil
}
