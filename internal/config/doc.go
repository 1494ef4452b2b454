// Package config holds the on-disk configuration of par: where the data
// and log directories live, which provider bridge to talk to, and how logs
// are written.
//
// Files are TOML. Load fills unset fields from Default, expands ~ in paths,
// applies PAR_PROVIDER_COMMAND and PAR_PROVIDER_URL when the file leaves the
// provider unset, and rejects invalid combinations with errors naming the
// offending key. Review settings edited by the user at runtime are not here;
// see package settings.
package config
