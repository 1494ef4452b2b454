package config

const (
	defaultConfigPath     = "~/.config/par/config.toml"
	defaultDataDir        = "~/.local/share/par"
	defaultLogDir         = "~/.local/share/par/logs"
	defaultProviderKind   = ProviderCommand
	defaultProviderBinary = "par-provider"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogRetention   = 30
)

// Provider kinds accepted in [provider].kind.
const (
	ProviderCommand = "command"
	ProviderHTTP    = "http"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Provider: Provider{
			Kind:    defaultProviderKind,
			Command: defaultProviderBinary,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}
