package config

const (
	defaultConfigPath        = "~/.config/alphamastery/config.toml"
	projectConfigName        = "alphamastery.toml"
	defaultDataDir           = "~/.local/share/alphamastery"
	defaultLogDir            = "~/.local/share/alphamastery/logs"
	defaultDatabaseName      = "alphamastery.db"
	defaultAPIBind           = "127.0.0.1:8000"
	defaultBusyTimeoutMS     = 5000
	defaultMasteryThreshold  = 0.9
	defaultVisionBaseURL     = "https://vision.googleapis.com/v1/images:annotate"
	defaultVisionTimeout     = 30
	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-2.5-flash"
	defaultLLMReferer        = "https://alphamastery.app"
	defaultLLMTitle          = "Alphabet Mastery Parent Help"
	defaultLLMTimeout        = 60
	defaultMythBatchSize     = 10
	defaultImageOptionCount  = 4
	defaultRequestsPerSecond = 20
	defaultBurst             = 40
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Database: Database{
			BusyTimeoutMS: defaultBusyTimeoutMS,
		},
		Mastery: Mastery{
			Threshold: defaultMasteryThreshold,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			TimeoutSeconds: defaultVisionTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Activities: Activities{
			MythBatchSize:    defaultMythBatchSize,
			ImageOptionCount: defaultImageOptionCount,
		},
		Server: Server{
			RequestsPerSecond: defaultRequestsPerSecond,
			Burst:             defaultBurst,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
