package config

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// MigrationsConfig MigrationsConfig.
type MigrationsConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// RestConfig RestConfig.
type RestConfig struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
	Cors   struct {
		Origin []string `mapstructure:"origin" yaml:"origin"`
	} `mapstructure:"cors"   yaml:"cors"`
}

// AdminConfig shared back-office credentials.
type AdminConfig struct {
	Password string `mapstructure:"password" yaml:"password"`
}

// SMTPConfig SMTPConfig.
type SMTPConfig struct {
	Hostname string `mapstructure:"hostname" yaml:"hostname"`
	Port     int    `mapstructure:"port"     yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
}

// IntakeNoticeConfig staff notification on new consignment / direct-sale requests.
type IntakeNoticeConfig struct {
	From    string   `mapstructure:"from"    yaml:"from"`
	To      []string `mapstructure:"to"      yaml:"to"`
	Subject string   `mapstructure:"subject" yaml:"subject"`
}

// FileStorageConfig S3-compatible image bucket.
type FileStorageConfig struct {
	Bucket   string `mapstructure:"bucket"   yaml:"bucket"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Region   string `mapstructure:"region"   yaml:"region"`
	S3       struct {
		Credentials struct {
			Key    string `mapstructure:"key"    yaml:"key"`
			Secret string `mapstructure:"secret" yaml:"secret"`
		} `mapstructure:"credentials" yaml:"credentials"`
		UsePathStyleEndpoint bool `mapstructure:"use_path_style_endpoint" yaml:"use_path_style_endpoint"`
	} `mapstructure:"s3" yaml:"s3"`
	MaxWidth    int `mapstructure:"max_width"    yaml:"max_width"`
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
}

// AnalyticsConfig AnalyticsConfig.
type AnalyticsConfig struct {
	RabbitMQ string `mapstructure:"rabbitmq" yaml:"rabbitmq"`
	Queue    string `mapstructure:"queue"    yaml:"queue"`
}

// RedisConfig RedisConfig.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"     yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
}

// Config Application config definition.
type Config struct {
	GinMode      string             `mapstructure:"gin-mode"      yaml:"gin-mode"`
	PublicRest   RestConfig         `mapstructure:"public-rest"   yaml:"public-rest"`
	PrivateRest  RestConfig         `mapstructure:"private-rest"  yaml:"private-rest"`
	DSN          string             `mapstructure:"dsn"           yaml:"dsn"`
	Migrations   MigrationsConfig   `mapstructure:"migrations"    yaml:"migrations"`
	Admin        AdminConfig        `mapstructure:"admin"         yaml:"admin"`
	SMTP         SMTPConfig         `mapstructure:"smtp"          yaml:"smtp"`
	IntakeNotice IntakeNoticeConfig `mapstructure:"intake-notice" yaml:"intake-notice"`
	FileStorage  FileStorageConfig  `mapstructure:"file-storage"  yaml:"file-storage"`
	Analytics    AnalyticsConfig    `mapstructure:"analytics"     yaml:"analytics"`
	Redis        RedisConfig        `mapstructure:"redis"         yaml:"redis"`
	PublicURL    string             `mapstructure:"public-url"    yaml:"public-url"`
}

// LoadConfig LoadConfig.
func LoadConfig(dir string) Config {
	cfg := Config{}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(dir)
	viper.SetEnvPrefix("MOTORHALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	return cfg
}

// ValidateConfig ValidateConfig.
func ValidateConfig(cfg Config) {
	if cfg.DSN == "" {
		logrus.Fatal("DSN not provided")
	}

	if cfg.Admin.Password == "" {
		logrus.Fatal("admin password not provided")
	}

	if cfg.FileStorage.Bucket == "" {
		logrus.Fatal("file storage bucket not provided")
	}
}
