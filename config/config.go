package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Service
	ServerPort  string `env:"SERVER_PORT" envDefault:"8899"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"remindly"`

	// PostgreSQL
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"remindly"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"30"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"200"`

	// Redis
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"rmd"`

	// RabbitMQ
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// Queue maintenance
	QueueHorizonHours     int `env:"QUEUE_HORIZON_HOURS" envDefault:"26"`     // forward window materialized into queue entries
	QueueLateWindowMins   int `env:"QUEUE_LATE_WINDOW_MINUTES" envDefault:"5"` // how far behind "now" dispatch still picks up
	QueueDispatchMaxItems int `env:"QUEUE_DISPATCH_MAX_ITEMS" envDefault:"200"`
	QueueBatchSize        int `env:"QUEUE_BATCH_SIZE" envDefault:"500"` // store-imposed hard cap per atomic batch
	RebuildOwnerWorkers   int `env:"REBUILD_OWNER_WORKERS" envDefault:"8"`

	// Recurrence generation
	GenerationHorizonDays int `env:"GENERATION_HORIZON_DAYS" envDefault:"30"`
	GenerationMaxPerChain int `env:"GENERATION_MAX_PER_CHAIN" envDefault:"100"`

	// Cron specs for the trigger surface
	CronFullRebuild    string `env:"CRON_FULL_REBUILD" envDefault:"15 3 * * *"`
	CronRoutineCatchUp string `env:"CRON_ROUTINE_CATCHUP" envDefault:"*/15 * * * *"`
	CronChainCatchUp   string `env:"CRON_CHAIN_CATCHUP" envDefault:"*/15 * * * *"`
	CronDispatch       string `env:"CRON_DISPATCH" envDefault:"*/2 * * * *"`

	// SMS provider
	SMSProvider     string `env:"SMS_PROVIDER" envDefault:"aliyun"` // aliyun, mock
	SMSSignName     string `env:"SMS_SIGN_NAME"`
	SMSTemplateCode string `env:"SMS_TEMPLATE_CODE"`

	// Email provider
	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"api"` // api, mock
	EmailAPIURL   string `env:"EMAIL_API_URL" envDefault:"https://api.brevo.com/v3/smtp/email"`
	EmailAPIKey   string `env:"EMAIL_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"reminders@remindly.app"`

	// Push provider
	PushProvider   string `env:"PUSH_PROVIDER" envDefault:"gateway"` // gateway, mock
	PushGatewayURL string `env:"PUSH_GATEWAY_URL"`
	PushGatewayKey string `env:"PUSH_GATEWAY_KEY"`

	// Snowflake ID generator
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// Logging
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// OpenTelemetry
	OTLPEndpoint string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTelEnabled  bool    `env:"OTEL_ENABLED" envDefault:"false"`
	SampleRatio  float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`
}

// Load reads .env (when present) plus the process environment and validates
// the result. Callers hold the returned value; nothing here is a process global.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.validate()
	return cfg, nil
}

func (c *Config) validate() {
	if c.QueueHorizonHours < 1 {
		log.Fatal("QUEUE_HORIZON_HOURS must be at least 1")
	}
	if c.QueueBatchSize < 1 || c.QueueBatchSize > 500 {
		log.Fatal("QUEUE_BATCH_SIZE must be within 1..500")
	}
	if c.SMSProvider == "aliyun" && c.SMSSignName == "" {
		log.Printf("WARN: SMS_SIGN_NAME is not set, SMS delivery may not work properly")
	}
	if c.EmailProvider == "api" && c.EmailAPIKey == "" {
		log.Printf("WARN: EMAIL_API_KEY is not set, email delivery will not work")
	}
	if c.PushProvider == "gateway" && c.PushGatewayURL == "" {
		log.Printf("WARN: PUSH_GATEWAY_URL is not set, push delivery will not work")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
