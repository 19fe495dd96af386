package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	AIModeBackend = "backend"
	AIModeOpenAI  = "openai"
)

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type HTTP struct {
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-separator:","`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"60s"`
}

type AI struct {
	Mode    string        `yaml:"mode" env:"AI_MODE" env-default:"backend"`
	BaseURL string        `yaml:"base_url" env:"AI_BACKEND_URL" env-default:"http://localhost:5001"`
	Timeout time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"30s"`
}

type OpenAI struct {
	OpenAIAPIKey     string  `yaml:"api_key" env:"OPENAI_API_KEY"`
	OpenAIModel      string  `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
	OpenAIBaseURL    string  `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com"`
	ModelTemperature float32 `yaml:"temperature" env:"MODEL_TEMPERATURE" env-default:"1"`
	MaxPromptTokens  int     `yaml:"max_prompt_tokens" env:"OPENAI_MAX_PROMPT_TOKENS" env-default:"3500"`
}

type Courses struct {
	BaseURL    string        `yaml:"base_url" env:"COURSES_API_URL" env-default:"http://localhost:5000"`
	SearchPath string        `yaml:"search_path" env:"COURSES_SEARCH_PATH" env-default:"/api/search"`
	ListPath   string        `yaml:"list_path" env:"COURSES_LIST_PATH" env-default:"/api/analytics/courses"`
	Timeout    time.Duration `yaml:"timeout" env:"COURSES_TIMEOUT" env-default:"15s"`
}

type Redis struct {
	Endpoint string `yaml:"endpoint" env:"REDIS_ENDPOINT"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Chat struct {
	HistoryCap       int    `yaml:"history_cap" env:"CHAT_HISTORY_CAP" env-default:"50"`
	VisibleHistory   int    `yaml:"visible_history" env:"CHAT_VISIBLE_HISTORY" env-default:"10"`
	MaxSearchResults int    `yaml:"max_search_results" env:"CHAT_MAX_SEARCH_RESULTS" env-default:"5"`
	MaxSuggestions   int    `yaml:"max_suggestions" env:"CHAT_MAX_SUGGESTIONS" env-default:"3"`
	MaxSessions      int    `yaml:"max_sessions" env:"CHAT_MAX_SESSIONS" env-default:"1000"`
	Language         string `yaml:"language" env:"CHAT_LANGUAGE" env-default:"en"`
}

type Telegram struct {
	TelegramAPIToken  string  `yaml:"api_token" env:"TELEGRAM_APITOKEN"`
	AllowedTelegramID []int64 `yaml:"allowed_telegram_id" env:"ALLOWED_TELEGRAM_ID" env-separator:","`
}

type Config struct {
	Log      Log      `yaml:"log"`
	HTTP     HTTP     `yaml:"http"`
	AI       AI       `yaml:"ai"`
	OpenAI   OpenAI   `yaml:"openai"`
	Courses  Courses  `yaml:"courses"`
	Redis    Redis    `yaml:"redis"`
	Chat     Chat     `yaml:"chat"`
	Telegram Telegram `yaml:"telegram"`
}

func LoadConfig(cfgPath string) (*Config, error) {
	var cfg Config
	if cfgPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadConfig(cfgPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
