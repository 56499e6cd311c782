package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/bsm/redislock"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
	"time"
)

type DB int
type ReleaseLock func() error

type Client struct {
	client         redis.UniversalClient
	lockExpiration time.Duration
}

var ctx = context.Background()

type Config struct {
	LockExpirationSeconds   int     `envconfig:"MDB_COMN_REDIS_LOCK_EXPIRATION" default:"3"`
	Host                    string  `envconfig:"MDB_COMN_REDIS_HOST" required:"true"`
	Port                    string  `envconfig:"MDB_COMN_REDIS_PORT" required:"true"`
	HASentinelPort          string  `envconfig:"MDB_COMN_REDIS_HA_SENTINEL_PORT" default:"26379"`
	HASentinelMasterName    string  `envconfig:"MDB_COMN_REDIS_HA_MASTER_NAME" default:"mymaster"`
	Password                string  `envconfig:"MDB_COMN_REDIS_AUTH_PASSWORD" default:"0"`
	AuthRequired            bool    `envconfig:"MDB_COMN_REDIS_AUTH_REQUIRED" default:"false"`
	HAMode                  bool    `envconfig:"MDB_COMN_REDIS_HA_MODE" default:"false"`
	HASentinelSocketTimeout float32 `envconfig:"MDB_COMN_REDIS_SOCKET_TIMEOUT" default:"0.5"`
}

func NewClient(db DB) (Client, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Client{}, err
	}
	var client redis.UniversalClient
	if cfg.HAMode {
		client = createFailoverClient(&cfg, db)
	} else {
		client = createClient(&cfg, db)
	}
	return Client{
		client:         client,
		lockExpiration: time.Duration(cfg.LockExpirationSeconds) * time.Second,
	}, nil
}

func createFailoverClient(cfg *Config, db DB) *redis.ClusterClient {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.HASentinelPort)
	timeout := time.Duration(cfg.HASentinelSocketTimeout) * time.Second
	options := redis.FailoverOptions{
		SentinelAddrs: []string{addr},
		ReadTimeout:   timeout,
		WriteTimeout:  timeout,
		MaxRetries:    6,
		DB:            int(db),
		MasterName:    cfg.HASentinelMasterName,
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewFailoverClusterClient(&options)
}

func createClient(cfg *Config, db DB) *redis.Client {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	options := redis.Options{
		Addr:       addr,
		MaxRetries: 6,
		DB:         int(db),
	}
	if cfg.AuthRequired {
		options.Password = cfg.Password
	}
	return redis.NewClient(&options)
}

// GetDocument fetches a task document and unmarshals the fields the caller's
// struct knows about. The returned raw bytes keep every field the struct
// does not model.
func (client *Client) GetDocument(redisKey string, doc interface{}) ([]byte, error) {
	response := client.client.Get(ctx, redisKey)
	if response.Err() != nil {
		return nil, response.Err()
	}
	raw, err := response.Bytes()
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateDocument applies an in-place mutation of doc to the stored document
// under a redis lock. Only the fields the mutation actually changed are
// written back, as a JSON merge patch against the raw stored bytes, so fields
// other services keep in the same document survive untouched.
func (client *Client) UpdateDocument(redisKey string, doc interface{}, apply func()) (err error) {
	releaseLock, err := client.Lock(redisKey)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = releaseLock()
			return
		}
		err = releaseLock()
	}()
	patch, raw, err := client.makePatch(redisKey, doc, apply)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return err
	}
	return client.SaveRaw(redisKey, merged)
}

// MakePatch runs the mutation and returns the merge patch it produced plus
// the raw stored document, without saving anything. Callers that mirror one
// update into several documents lock and save themselves.
func (client *Client) MakePatch(redisKey string, doc interface{}, apply func()) ([]byte, []byte, error) {
	return client.makePatch(redisKey, doc, apply)
}

func (client *Client) makePatch(redisKey string, doc interface{}, apply func()) (patch []byte, raw []byte, err error) {
	raw, err = client.GetDocument(redisKey, doc)
	if err != nil {
		return nil, nil, err
	}
	before, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	apply()
	after, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	patch, err = jsonpatch.CreateMergePatch(before, after)
	if err != nil {
		return nil, nil, err
	}
	return patch, raw, nil
}

// SavePatched merge-patches previously fetched raw bytes and stores the result.
func (client *Client) SavePatched(redisKey string, raw, patch []byte) error {
	merged, err := jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return err
	}
	return client.SaveRaw(redisKey, merged)
}

// PatchRaw merge-patches the stored document under redisKey in place.
func (client *Client) PatchRaw(redisKey string, patch []byte) error {
	var doc json.RawMessage
	raw, err := client.GetDocument(redisKey, &doc)
	if err != nil {
		return err
	}
	merged, err := jsonpatch.MergePatch(raw, patch)
	if err != nil {
		return err
	}
	return client.SaveRaw(redisKey, merged)
}

func (client *Client) Lock(redisKey string) (ReleaseLock, error) {
	lockCl := redislock.New(client.client)
	str := redislock.LimitRetry(redislock.LinearBackoff(time.Second), 20)
	lockKey := fmt.Sprintf("lock:%s", redisKey)
	lock, err := lockCl.Obtain(ctx, lockKey, client.lockExpiration, &redislock.Options{RetryStrategy: str})
	if err != nil {
		return nil, err
	}
	return func() error {
		return lock.Release(ctx)
	}, nil
}

func (client *Client) SaveRaw(redisKey string, document []byte) error {
	response := client.client.Set(ctx, redisKey, document, 0)
	return response.Err()
}

func (client *Client) Close() error {
	return client.client.Close()
}
