package config

import (
	"github.com/joho/godotenv"
	"github.com/nftbay/marketplace-engine/internal/log"
	"go.uber.org/zap"
	"math/big"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env     string
	Network string
	Index   string
	Debug   bool

	ApiPort    string
	HealthPort string

	ListingFee      uint64
	FeeRecipient    string
	AdminAddress    string
	OperatorAddress string

	LogPath   string
	SentryDsn string

	Registry      RegistryConfig
	Payout        PayoutConfig
	Amqp          AmqpConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
}

type RegistryConfig struct {
	Url      string
	Timeout  int
	RetryMax int
	Debug    bool
}

type PayoutConfig struct {
	Url      string
	Timeout  int
	RetryMax int
}

type AmqpConfig struct {
	Url string
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Token     string
	Region    string
}

type ElasticSearchConfig struct {
	Hosts            []string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Aws              bool
	Username         string
	Password         string
	MappingDir       string
	BulkPersistCount int
	Refresh          string
}

func Init(service string) {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Config: No .env file found, using environment")
	}

	initLogger(service)
}

func initLogger(service string) {
	log.NewLogger(Get().LogPath+"/"+service+".log", Get().Debug, Get().SentryDsn)
}

func Get() *Config {
	return &Config{
		Env:             getString("ENV", ""),
		Network:         getString("NETWORK", "mainnet"),
		Index:           getString("INDEX_NAME", "marketplace"),
		Debug:           getBool("DEBUG", false),
		ApiPort:         getString("API_PORT", "8080"),
		HealthPort:      getString("HEALTH_PORT", "8081"),
		ListingFee:      getUint64("LISTING_FEE", 1),
		FeeRecipient:    getString("FEE_RECIPIENT", ""),
		AdminAddress:    getString("ADMIN_ADDRESS", ""),
		OperatorAddress: getString("OPERATOR_ADDRESS", ""),
		LogPath:         getString("LOG_PATH", "./var/log"),
		SentryDsn:       getString("SENTRY_DSN", ""),
		Registry: RegistryConfig{
			Url:      getString("REGISTRY_URL", ""),
			Timeout:  getInt("REGISTRY_TIMEOUT", 30),
			RetryMax: getInt("REGISTRY_RETRY_MAX", 3),
			Debug:    getBool("REGISTRY_DEBUG", false),
		},
		Payout: PayoutConfig{
			Url:      getString("PAYOUT_URL", ""),
			Timeout:  getInt("PAYOUT_TIMEOUT", 30),
			RetryMax: getInt("PAYOUT_RETRY_MAX", 3),
		},
		Amqp: AmqpConfig{
			Url: getString("AMQP_URL", ""),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Token:     getString("AWS_TOKEN", ""),
			Region:    getString("AWS_REGION", ""),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "/data/mappings"),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint64) uint64 {
	valStr := getString(key, "")
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return val
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	return strings.Split(valStr, sep)
}
