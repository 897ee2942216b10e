package config

const (
	defaultProvider     = "gemini"
	defaultListen       = ":8080"
	defaultWorkers      = 3
	defaultQueueSize    = 256
	defaultLogDir       = "logs"
	defaultClientTarget = "http://localhost:8080"
	defaultEventsTopic  = "buddy.turns"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen:    defaultListen,
			Workers:   defaultWorkers,
			QueueSize: defaultQueueSize,
		},
		Model: ModelConfig{
			Provider: defaultProvider,
		},
		Log: LogConfig{
			Dir: defaultLogDir,
		},
		Client: ClientConfig{
			Target: defaultClientTarget,
		},
		Events: EventsConfig{
			Topic: defaultEventsTopic,
		},
	}
}
