package artist

const (
	// DefaultSearchDepth is applied when the search depth field is cleared.
	DefaultSearchDepth = 210
	// MaxSearchDepth is the largest accepted search depth.
	MaxSearchDepth = 1020
	// DefaultTimezone is applied when the timezone field is cleared.
	DefaultTimezone = "Etc/GMT-9"
)

// Settings are the committed per-user parameters passed to every remote call.
type Settings struct {
	CredentialToken string
	SearchDepth     int
	TimezoneName    string
}

// DefaultSettings returns settings with no credential and default search
// parameters.
func DefaultSettings() Settings {
	return Settings{
		SearchDepth:  DefaultSearchDepth,
		TimezoneName: DefaultTimezone,
	}
}

// HasCredential reports whether a credential has been committed.
func (s Settings) HasCredential() bool {
	return s.CredentialToken != ""
}
