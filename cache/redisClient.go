package cache

import (
	"github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// NewRedisClient connects to redis at $address and checks the connection
func NewRedisClient(address string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connecting to redis failed")
	}

	return client, nil
}

// NewCodec returns a msgpack cache codec on top of $client
func NewCodec(client *redis.Client) *cache.Codec {
	return &cache.Codec{
		Redis: client,
		Marshal: func(v interface{}) ([]byte, error) {
			return msgpack.Marshal(v)
		},
		Unmarshal: func(b []byte, v interface{}) error {
			return msgpack.Unmarshal(b, v)
		},
	}
}
