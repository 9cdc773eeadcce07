package config

import (
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

/*
config singleton
init : 設置viper watch 與 onConfigChange
read : 一般讀取 使用讀寫鎖
*/
var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	DbName           string        `mapstructure:"POSTGRES_DB"`
	DbHost           string        `mapstructure:"POSTGRES_HOST"`
	DbPort           string        `mapstructure:"POSTGRES_PORT"`
	DbUser           string        `mapstructure:"POSTGRES_USER"`
	DbPas            string        `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPas         string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	KafkaBrokers     []string      `mapstructure:"KAFKA_BROKERS"`
	NotifyTopic      string        `mapstructure:"NOTIFY_TOPIC"`
	RestockOnCancel  bool          `mapstructure:"RESTOCK_ON_CANCEL"`
	CheckoutTokenTTL time.Duration `mapstructure:"CHECKOUT_TOKEN_TTL"`
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				config_singleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					config_singleton.Config = cf
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤 由外部決定要不要Fatal
*/
func loadConfig() (cf *Config, err error) {
	config_singleton.mu.Lock()
	defer config_singleton.mu.Unlock()

	cf = &Config{}
	viper.SetConfigFile("app.env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("NOTIFY_TOPIC", "order-processed")
	viper.SetDefault("RESTOCK_ON_CANCEL", false)
	viper.SetDefault("CHECKOUT_TOKEN_TTL", 24*time.Hour)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}
