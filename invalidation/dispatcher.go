// Package invalidation maps mutations onto the cache regions they dirty and
// flushes those regions in Redis. Invalidation is best-effort: the parent
// mutation's correctness never depends on it.
package invalidation

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	invalidatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "waggle_cache_invalidations_total",
		Help: "Cache tags invalidated, by tag prefix.",
	}, []string{"tag"})

	failuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waggle_cache_invalidation_failures_total",
		Help: "Cache invalidation attempts that failed.",
	})
)

// RevalidateChannel is the pub/sub channel the rendering frontend listens on
// for path-level re-renders.
const RevalidateChannel = "cache:revalidate"

const tagKeyPrefix = "cache:tag:"

type Kind string

const (
	KindFeed        Kind = "feed"
	KindHashtags    Kind = "hashtags"
	KindGuilds      Kind = "guilds"
	KindLeaderboard Kind = "leaderboard"
	KindPost        Kind = "post"
	KindGuild       Kind = "guild"
)

// Target names one cache region. Feed, Hashtags, Guilds and Leaderboard are
// global; Post and Guild are scoped to a row.
type Target struct {
	Kind Kind
	ID   uuid.UUID
}

func Feed() Target        { return Target{Kind: KindFeed} }
func Hashtags() Target    { return Target{Kind: KindHashtags} }
func Guilds() Target      { return Target{Kind: KindGuilds} }
func Leaderboard() Target { return Target{Kind: KindLeaderboard} }

func Post(id uuid.UUID) Target  { return Target{Kind: KindPost, ID: id} }
func Guild(id uuid.UUID) Target { return Target{Kind: KindGuild, ID: id} }

func (t Target) Tag() string {
	switch t.Kind {
	case KindPost, KindGuild:
		return string(t.Kind) + ":" + t.ID.String()
	}
	return string(t.Kind)
}

func (t Target) Paths() []string {
	switch t.Kind {
	case KindFeed:
		return []string{"/feed"}
	case KindHashtags:
		return []string{"/hashtags"}
	case KindGuilds:
		return []string{"/guilds"}
	case KindLeaderboard:
		return []string{"/leaderboard"}
	case KindPost:
		return []string{"/posts/" + t.ID.String()}
	case KindGuild:
		return []string{"/guilds/" + t.ID.String()}
	}
	return nil
}

// Plan reduces targets to the deduplicated tags and paths to invalidate.
func Plan(targets ...Target) (tags []string, paths []string) {
	tags = lo.Uniq(lo.Map(targets, func(t Target, _ int) string { return t.Tag() }))
	paths = lo.Uniq(lo.FlatMap(targets, func(t Target, _ int) []string { return t.Paths() }))
	return tags, paths
}

type Dispatcher struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewDispatcher(rdb *redis.Client, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{redis: rdb, logger: logger}
}

// Dispatch flushes every cache key registered under each target's tag and
// publishes path revalidations. Errors are logged and counted, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, targets ...Target) {
	tags, paths := Plan(targets...)

	for _, tag := range tags {
		key := tagKeyPrefix + tag

		members, err := d.redis.SMembers(ctx, key).Result()
		if err != nil {
			d.fail("read tag members", tag, err)
			continue
		}

		if len(members) > 0 {
			if err := d.redis.Del(ctx, members...).Err(); err != nil {
				d.fail("delete tagged keys", tag, err)
				continue
			}
		}

		if err := d.redis.Del(ctx, key).Err(); err != nil {
			d.fail("delete tag set", tag, err)
			continue
		}

		invalidatedTotal.WithLabelValues(string(kindOf(tag))).Inc()
	}

	for _, path := range paths {
		if err := d.redis.Publish(ctx, RevalidateChannel, path).Err(); err != nil {
			d.fail("publish revalidation", path, err)
		}
	}
}

func (d *Dispatcher) fail(op, subject string, err error) {
	failuresTotal.Inc()
	d.logger.Warn("cache invalidation failed",
		zap.String("op", op), zap.String("subject", subject), zap.Error(err))
}

func kindOf(tag string) Kind {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ':' {
			return Kind(tag[:i])
		}
	}
	return Kind(tag)
}
