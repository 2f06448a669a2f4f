package redis

import "time"

// Config is populated from the environment by pkg/config.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required"`                     // ConnectionURL in "redis://:password@host:6379/0" form.
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`    // RetryAttempts is the number of connection attempts at startup.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`   // RetryInterval is the wait between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"` // ConnectTimeout bounds the whole retry loop.
}
