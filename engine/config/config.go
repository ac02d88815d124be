package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HttpApiConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

func (c *HttpApiConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type KafkaEventLogConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	BrokerEndpoint      string        `mapstructure:"broker_endpoint"`
	Topic               string        `mapstructure:"topic"`
	ProducerCredentials string        `mapstructure:"producer_credentials"` // username:password
	TrustStorePath      string        `mapstructure:"truststore_path"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type LedgerClientConfig struct {
	SubmitURL string        `mapstructure:"submit_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type SweeperConfig struct {
	Period time.Duration `mapstructure:"period"`
}

type Config struct {
	StateDBDSN    string `mapstructure:"state_dbdsn"`
	KeyStoreDBDSN string `mapstructure:"key_store_dbdsn"`
	EventLogFile  string `mapstructure:"event_log_file"`
	LogFile       string `mapstructure:"log_file"`

	HttpApiConfig       *HttpApiConfig       `mapstructure:"http_api"`
	KafkaEventLogConfig *KafkaEventLogConfig `mapstructure:"kafka_event_log"`
	LedgerClientConfig  *LedgerClientConfig  `mapstructure:"ledger_client"`
	SweeperConfig       *SweeperConfig       `mapstructure:"sweeper"`
}

// Load reads the engine configuration from a YAML file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("state_dbdsn", "./ajo_msig_state")
	v.SetDefault("key_store_dbdsn", "./ajo_msig_key_store")
	v.SetDefault("event_log_file", "./ajo_msig_events")
	v.SetDefault("http_api.host", "localhost")
	v.SetDefault("http_api.port", 8080)
	v.SetDefault("ledger_client.submit_url", "http://localhost:9090/submitTransaction")
	v.SetDefault("ledger_client.timeout", 10*time.Second)
	v.SetDefault("kafka_event_log.timeout", 10*time.Second)
	v.SetDefault("sweeper.period", time.Minute)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
