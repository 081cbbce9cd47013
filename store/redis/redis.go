package redis

import (
	"context"
	"runtime"

	"github.com/redis/go-redis/v9"
)

type Single struct {
	Client *redis.Client
	config *Config
}

type Cluster struct {
	Client *redis.ClusterClient
	config *ClusterConfig
}

type SingleOption func(*Single)

// NewClient builds a client for a standalone redis server. The connection
// is not verified here; call Ping to check reachability.
func NewClient(c *Config, opts ...SingleOption) (*Single, error) {
	s := &Single{
		config: c,
	}

	if err := s.config.init(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.config.PoolSize == 0 {
		s.config.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}

	s.Client = redis.NewClient(&redis.Options{
		Addr:     s.config.Addr(),
		Password: s.config.Password,
		DB:       s.config.DB,
		Protocol: s.config.Protocol,
		PoolSize: s.config.PoolSize,
	})

	return s, nil
}

func (s *Single) Ping(ctx context.Context) error {
	_, err := s.Client.Ping(ctx).Result()
	return err
}

func (s *Single) Close() error {
	if s.Client == nil {
		return nil
	}

	return s.Client.Close()
}

type ClusterOption func(*Cluster)

func NewClusterClient(c *ClusterConfig, opts ...ClusterOption) (*Cluster, error) {
	cl := &Cluster{
		config: c,
	}

	if err := cl.config.init(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cl)
	}

	if cl.config.PoolSize == 0 {
		cl.config.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}

	cl.Client = redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:    cl.config.Addrs,
		Password: cl.config.Password,
		Protocol: cl.config.Protocol,
		PoolSize: cl.config.PoolSize,
	})

	return cl, nil
}

func (cl *Cluster) Ping(ctx context.Context) error {
	_, err := cl.Client.Ping(ctx).Result()
	return err
}

func (cl *Cluster) Close() error {
	if cl.Client == nil {
		return nil
	}

	return cl.Client.Close()
}
