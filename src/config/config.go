package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Databases DatabasesConfig `mapstructure:"databases"`
	Job       JobConfig       `mapstructure:"job"`
	Mailer    MailerConfig    `mapstructure:"mailer"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type ServiceType `mapstructure:"type"`
	Port string      `mapstructure:"port"`
}

type DatabasesConfig struct {
	SQL SQLConfig `mapstructure:"sql"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Driver           string `mapstructure:"driver"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

// JobConfig configures the overdue detection job. Secret guards the run-now
// endpoint; when SecretARN is set the value is fetched from AWS Secrets
// Manager at startup instead. CronTime, when non-empty, enables the
// in-process daily trigger so no external scheduler is needed.
type JobConfig struct {
	Secret          string `mapstructure:"secret"`
	SecretARN       string `mapstructure:"secretArn"`
	CronTime        string `mapstructure:"cronTime"`
	DispatchTimeout int    `mapstructure:"dispatchTimeoutSeconds"`
}

type MailerProvider string

const (
	SES     MailerProvider = "SES"
	HTTPAPI MailerProvider = "HTTP"
)

type MailerConfig struct {
	Provider MailerProvider `mapstructure:"provider"`
	Sender   string         `mapstructure:"sender"`
	Region   string         `mapstructure:"region"`
	BaseURL  string         `mapstructure:"baseUrl"`
	Token    string         `mapstructure:"token"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	LogToFile bool   `mapstructure:"logToFile"`
	FilePath  string `mapstructure:"filePath"`
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	viper.AddConfigPath(path)
	viper.SetConfigName("appsettings")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
