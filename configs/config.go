package config

import (
	"os"
	"strconv"
	"strings"
)

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
}

type Schedule struct {
	Enabled                bool
	PostingHours           []int
	MinuteWindow           int
	AccountIntervalSeconds int
	Timezone               string
}

type Selection struct {
	EnableRandomSelection bool
	AvoidRecentContent    bool
	RecentContentLimit    int
	EnableSharedContent   bool
}

type Config struct {
	ThreadsAPIBase        string
	SpreadsheetID         string
	GoogleCredentialsFile string
	RedisURI              string
	Cloudinary            Cloudinary
	Schedule              Schedule
	Selection             Selection
	AssetsDir             string
	MaxImageSizeMB        int
	ReplyDelayMinutes     int
	ReplyWaitSeconds      int
	TextSettleSeconds     int
	ImageSettleSeconds    int
	MaxDailyPosts         int
	PostIntervalMinutes   int
	SecretKey             string
	AdminAPIKey           string
	CookieName            string
	ListenAddr            string
}

func LoadConfig() *Config {
	return &Config{
		ThreadsAPIBase:        getEnv("THREADS_API_BASE", "https://graph.threads.net/v1.0"),
		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		RedisURI:              getEnv("REDIS_URI", "localhost:6379"),
		Cloudinary: Cloudinary{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			BaseURL:   getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
		},
		Schedule: Schedule{
			Enabled:                getEnvBool("SCHEDULE_ENABLED", true),
			PostingHours:           getEnvInts("POSTING_HOURS", []int{2, 5, 8, 12, 17, 20, 22, 0}),
			MinuteWindow:           getEnvInt("POSTING_MINUTE_WINDOW", 5),
			AccountIntervalSeconds: getEnvInt("ACCOUNT_INTERVAL_SECONDS", 30),
			Timezone:               getEnv("SCHEDULE_TIMEZONE", "Asia/Tokyo"),
		},
		Selection: Selection{
			EnableRandomSelection: getEnvBool("ENABLE_RANDOM_SELECTION", true),
			AvoidRecentContent:    getEnvBool("AVOID_RECENT_CONTENT", true),
			RecentContentLimit:    getEnvInt("RECENT_CONTENT_LIMIT", 5),
			EnableSharedContent:   getEnvBool("ENABLE_SHARED_CONTENT", true),
		},
		AssetsDir:           getEnv("ASSETS_DIR", "assets"),
		MaxImageSizeMB:      getEnvInt("MAX_IMAGE_SIZE_MB", 8),
		ReplyDelayMinutes:   getEnvInt("REPLY_DELAY_MINUTES", 5),
		ReplyWaitSeconds:    getEnvInt("REPLY_WAIT_SECONDS", 5),
		TextSettleSeconds:   getEnvInt("TEXT_SETTLE_SECONDS", 2),
		ImageSettleSeconds:  getEnvInt("IMAGE_SETTLE_SECONDS", 3),
		MaxDailyPosts:       getEnvInt("MAX_DAILY_POSTS", -1),
		PostIntervalMinutes: getEnvInt("POST_INTERVAL_MINUTES", 0),
		SecretKey:           getEnv("SECRET_KEY", ""),
		AdminAPIKey:         getEnv("ADMIN_API_KEY", ""),
		CookieName:          getEnv("COOKIE_NAME", "threadflow_session"),
		ListenAddr:          getEnv("LISTEN_ADDR", ":3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		out = append(out, n)
	}
	return out
}
