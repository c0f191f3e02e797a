package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Hotel identity.
	HotelName string `mapstructure:"HOTEL_NAME"`

	// Twilio WhatsApp configuration.
	TwilioAccountSID   string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken    string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppFrom string `mapstructure:"TWILIO_WHATSAPP_FROM"`

	// Interactive template SIDs (main menu, room menu, package menu).
	TemplateMainMenu    string `mapstructure:"TEMPLATE_MAIN_MENU"`
	TemplateRoomMenu    string `mapstructure:"TEMPLATE_ROOM_MENU"`
	TemplatePackageMenu string `mapstructure:"TEMPLATE_PACKAGE_MENU"`

	// Gemini reply composer.
	GeminiAPIKey       string `mapstructure:"GEMINI_API_KEY"`
	ComposeTimeoutSecs int    `mapstructure:"COMPOSE_TIMEOUT_SECS"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisAILogDB         int    `mapstructure:"REDIS_AI_LOG_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Session repository backend: "memory" or "redis".
	SessionBackend  string `mapstructure:"SESSION_BACKEND"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("HOTEL_NAME", "Serenity Hotel")
	viper.SetDefault("TEMPLATE_MAIN_MENU", "HX4cdeab44c242fff61b426df2bde3c80b")
	viper.SetDefault("TEMPLATE_ROOM_MENU", "HXdc5616ce0031523554b7d70c5e3e4b4e")
	viper.SetDefault("TEMPLATE_PACKAGE_MENU", "HX473b1ae69ead709efad025dad95438f3")
	viper.SetDefault("COMPOSE_TIMEOUT_SECS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_AI_LOG_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("SESSION_BACKEND", "memory")
	viper.SetDefault("SESSION_TTL_HOURS", 24)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
