package config

// DefaultConfig returns the built-in configuration used when no config file
// is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8000,
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			StaticDir: "./web",
		},
		Upload: UploadConfig{
			MaxFileSize: 16 * 1024 * 1024,
			Workspace:   "data/uploads",
		},
		Caption: ProviderConfig{
			Type:        "openai",
			ModelName:   "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   100,
		},
		LLM: ProviderConfig{
			Type:        "openai",
			ModelName:   "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   150,
		},
		Speech: SpeechConfig{
			Voice: "en-US-AriaNeural",
		},
		Colors: ColorsConfig{
			Clusters:  5,
			SampleDim: 128,
		},
	}
}
