package config

import "fmt"

type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Server        ServerConfig            `mapstructure:"server"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Industries    IndustriesConfig        `mapstructure:"industries"`
	Qualification QualificationConfig     `mapstructure:"qualification"`
	Storage       StorageConfig           `mapstructure:"storage"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Tracing       TracingConfig           `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type IndustriesConfig struct {
	Dir     string `mapstructure:"dir"`
	Default string `mapstructure:"default"`
}

type QualificationConfig struct {
	GenericMinAge       int    `mapstructure:"generic_min_age"` // milliseconds
	PhoneRegion         string `mapstructure:"phone_region"`
	PersistenceTimeout  int    `mapstructure:"persistence_timeout"` // milliseconds
	NotificationTimeout int    `mapstructure:"notification_timeout"`
}

const (
	ConversationStoreMemory = "memory"
	ConversationStoreRedis  = "redis"

	LedgerMemory        = "memory"
	LedgerFile          = "file"
	LedgerPostgres      = "postgres"
	LedgerElasticsearch = "elasticsearch"
)

type StorageConfig struct {
	Conversations string `mapstructure:"conversations"`
	Ledger        string `mapstructure:"ledger"`
	LedgerFile    string `mapstructure:"ledger_file"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // seconds, 0 keeps conversations forever
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	Plaintext      bool   `mapstructure:"plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type NotificationConfig struct {
	Statuses []string `mapstructure:"statuses"`
	AWS      struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
	SMS struct {
		Enabled     bool   `mapstructure:"enabled"`
		PhoneNumber string `mapstructure:"phone_number"`
	} `mapstructure:"sms"`
	Email struct {
		Enabled bool     `mapstructure:"enabled"`
		From    string   `mapstructure:"from"`
		To      []string `mapstructure:"to"`
	} `mapstructure:"email"`
	Webhook struct {
		Enabled bool   `mapstructure:"enabled"`
		URL     string `mapstructure:"url"`
		Timeout int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"webhook"`
}

func (n NotificationConfig) AnyEnabled() bool {
	return n.SMS.Enabled || n.Email.Enabled || n.Webhook.Enabled
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}
