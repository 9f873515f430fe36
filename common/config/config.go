package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "ARRANGEMENT"

type Config struct {
	AWS      AWSConfig
	DynamoDB DynamoDBConfig
	Server   ServerConfig
	NATS     NATSConfig
	Redis    RedisConfig
	Engine   EngineConfig
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

type DynamoDBConfig struct {
	TableName        string
	MaxRetries       int
	UseLocalEndpoint bool
	ParticipantPage  int32
}

type ServerConfig struct {
	Environment string
	LogLevel    string
	LogFormat   string
	ServiceName string
}

type NATSConfig struct {
	URL                  string
	MaxReconnect         int
	ReconnectWaitSeconds int
	TimeoutSeconds       int
	StatusStream         string
	PresentationStream   string
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

type EngineConfig struct {
	DefaultTimerSeconds int
	MinTimerSeconds     int
	TeamEmailDomain     string
	HandoffTTL          time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("aws.region", "ap-southeast-1")
	v.SetDefault("dynamodb.tablename", "arrangement")
	v.SetDefault("dynamodb.maxretries", 3)
	v.SetDefault("dynamodb.participantpage", 200)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.loglevel", "info")
	v.SetDefault("server.logformat", "json")
	v.SetDefault("server.servicename", "arrangement-service")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.maxreconnect", -1)
	v.SetDefault("nats.reconnectwaitseconds", 2)
	v.SetDefault("nats.timeoutseconds", 5)
	v.SetDefault("nats.statusstream", "PERFORMANCE_STATUS")
	v.SetDefault("nats.presentationstream", "PRESENTATION_EVENTS")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.maxretries", 3)
	v.SetDefault("redis.dialtimeout", 5*time.Second)
	v.SetDefault("redis.readtimeout", 3*time.Second)
	v.SetDefault("redis.writetimeout", 3*time.Second)
	v.SetDefault("redis.poolsize", 10)
	v.SetDefault("redis.minidleconns", 2)
	v.SetDefault("engine.defaulttimerseconds", 120)
	v.SetDefault("engine.mintimerseconds", 30)
	v.SetDefault("engine.teamemaildomain", "team.local")
	v.SetDefault("engine.handoffttl", 12*time.Hour)
}

// Load reads config.yaml from ./config, the working directory or configPath.
// A missing file is not an error, defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Engine = cfg.Engine.normalized()
	return &cfg, nil
}

func (e EngineConfig) normalized() EngineConfig {
	if e.MinTimerSeconds <= 0 {
		e.MinTimerSeconds = 30
	}
	if e.DefaultTimerSeconds < e.MinTimerSeconds {
		e.DefaultTimerSeconds = 120
	}
	if e.DefaultTimerSeconds < e.MinTimerSeconds {
		e.DefaultTimerSeconds = e.MinTimerSeconds
	}
	return e
}

// LoadRedis builds the redis settings from the environment, falling back to base.
func LoadRedis(base RedisConfig) RedisConfig {
	env := NewEnvLoader(EnvPrefix)
	return RedisConfig{
		Address:      env.GetString("REDIS_ADDR", base.Address),
		Password:     env.GetString("REDIS_PASSWORD", base.Password),
		DB:           env.GetInt("REDIS_DB", base.DB),
		MaxRetries:   env.GetInt("REDIS_MAX_RETRIES", base.MaxRetries),
		DialTimeout:  env.GetDuration("REDIS_DIAL_TIMEOUT", base.DialTimeout),
		ReadTimeout:  env.GetDuration("REDIS_READ_TIMEOUT", base.ReadTimeout),
		WriteTimeout: env.GetDuration("REDIS_WRITE_TIMEOUT", base.WriteTimeout),
		PoolSize:     env.GetInt("REDIS_POOL_SIZE", base.PoolSize),
		MinIdleConns: env.GetInt("REDIS_MIN_IDLE_CONNS", base.MinIdleConns),
	}
}
