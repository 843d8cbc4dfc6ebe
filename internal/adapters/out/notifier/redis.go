package notifier

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"laundry/internal/core/ports"
)

const (
	versionKeyPrefix = "laundry:notification:version:"
	versionTTL       = 24 * time.Hour
)

// publishIfNewer publishes ARGV[3] on channel ARGV[2] only when version ARGV[1] is above the
// one stored at KEYS[1], and stores it. Returns 1 when published.
var publishIfNewer = goredis.NewScript(`
local last = tonumber(redis.call('GET', KEYS[1]) or '0')
if tonumber(ARGV[1]) <= last then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[4])
redis.call('PUBLISH', ARGV[2], ARGV[3])
return 1
`)

// RedisNotifier publishes each notification on the pub/sub channel named by its topic.
// Versioned envelopes older than the last one published for the same topic and order are
// dropped, so a channel never goes back to an earlier order state.
type RedisNotifier struct {
	client goredis.UniversalClient
}

var _ ports.Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client goredis.UniversalClient) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (r *RedisNotifier) Publish(ctx context.Context, n ports.Notification) error {
	env, value, err := envelopeOf(n)
	if err != nil {
		return err
	}
	_, err = r.PublishEnvelope(ctx, env, value)
	return err
}

// PublishEnvelope sends an already encoded envelope to env.Topic. It reports false when a
// versioned envelope was dropped as stale.
func (r *RedisNotifier) PublishEnvelope(ctx context.Context, env Envelope, raw []byte) (bool, error) {
	if !env.Versioned() {
		return true, r.client.Publish(ctx, env.Topic, raw).Err()
	}

	sent, err := publishIfNewer.Run(ctx, r.client,
		[]string{versionKey(env.Topic, env.Key)},
		env.Version, env.Topic, raw, versionTTL.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return sent == 1, nil
}

func versionKey(topic, key string) string {
	return versionKeyPrefix + topic + ":" + key
}
