package config

// Config is the root configuration for the imagesense server.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Log     LogConfig      `yaml:"log"`
	Web     WebConfig      `yaml:"web"`
	Upload  UploadConfig   `yaml:"upload"`
	Caption ProviderConfig `yaml:"caption"`
	LLM     ProviderConfig `yaml:"llm"`
	Speech  SpeechConfig   `yaml:"speech"`
	Colors  ColorsConfig   `yaml:"colors"`
}

type ServerConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	StaticDir string `yaml:"static_dir"`
}

// UploadConfig bounds inbound image payloads and anchors per-request
// scratch storage.
type UploadConfig struct {
	MaxFileSize int64  `yaml:"max_file_size"`
	Workspace   string `yaml:"workspace"`
}

// ProviderConfig describes one model-backed collaborator.
type ProviderConfig struct {
	Type        string  `yaml:"type"`
	ModelName   string  `yaml:"model_name"`
	BaseURL     string  `yaml:"url,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	TopP        float64 `yaml:"top_p,omitempty"`
}

type SpeechConfig struct {
	Voice string `yaml:"voice"`
}

type ColorsConfig struct {
	Clusters  int `yaml:"clusters"`
	SampleDim int `yaml:"sample_dim"`
}
