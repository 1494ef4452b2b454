package settings

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"par/internal/artist"
	"par/internal/logging"
	"par/internal/remote"
	"par/internal/services"
	"par/internal/store"
)

// Field names reported in Result.Changed.
const (
	FieldCredential  = "credential"
	FieldSearchDepth = "search_depth"
	FieldTimezone    = "timezone"
)

// Draft holds settings as typed, before validation.
type Draft struct {
	Credential  string
	SearchDepth string
	Timezone    string
}

// DraftOf renders committed settings as draft text.
func DraftOf(s artist.Settings) Draft {
	return Draft{
		Credential:  s.CredentialToken,
		SearchDepth: strconv.Itoa(s.SearchDepth),
		Timezone:    s.TimezoneName,
	}
}

// Result describes the outcome of a commit.
type Result struct {
	Committed         artist.Settings
	RequiresFullReset bool
	// Changed lists the fields whose committed value changed.
	Changed []string
	// Draft is the submitted draft with rejected fields reverted.
	Draft Draft
}

// Reconciler owns the committed settings and the pending draft.
type Reconciler struct {
	store     *store.Store
	provider  remote.Provider
	logger    *slog.Logger
	committed artist.Settings
	draft     Draft
}

// Load reads committed settings from st, falling back to defaults when none
// were saved.
func Load(ctx context.Context, st *store.Store, provider remote.Provider, logger *slog.Logger) (*Reconciler, error) {
	committed := artist.DefaultSettings()
	row, found, err := st.LoadSettings(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreCorrupt, "settings", "load", "", err)
	}
	if found {
		committed = artist.Settings{
			CredentialToken: row.CredentialToken,
			SearchDepth:     row.SearchDepth,
			TimezoneName:    row.Timezone,
		}
	}
	return &Reconciler{
		store:     st,
		provider:  provider,
		logger:    logging.NewComponentLogger(logger, "settings"),
		committed: committed,
		draft:     DraftOf(committed),
	}, nil
}

// Committed returns the committed settings.
func (r *Reconciler) Committed() artist.Settings {
	return r.committed
}

// Draft returns the pending draft.
func (r *Reconciler) Draft() Draft {
	return r.draft
}

// StageEdit records draft as pending without touching committed values.
func (r *Reconciler) StageEdit(draft Draft) {
	r.draft = draft
}

// CancelEdit discards the pending draft.
func (r *Reconciler) CancelEdit() {
	r.draft = DraftOf(r.committed)
}

// CredentialValid reports whether the committed credential authenticates.
// An empty credential or a provider failure counts as invalid.
func (r *Reconciler) CredentialValid(ctx context.Context) bool {
	if !r.committed.HasCredential() {
		return false
	}
	ok, err := r.provider.ValidateCredential(ctx, r.committed.CredentialToken)
	if err != nil {
		logging.WarnWithContext(r.logger, "credential check failed", "credential_check_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the provider helper or bridge"),
			logging.String(logging.FieldImpact, "session starts uninitialized"),
		)
		return false
	}
	return ok
}

// Commit applies draft field by field and persists the result when any
// field changed. Only a failed write is returned as an error; rejected
// values are reverted in Result.Draft.
func (r *Reconciler) Commit(ctx context.Context, draft Draft) (Result, error) {
	next := r.committed
	out := Draft{
		Credential:  strings.TrimSpace(draft.Credential),
		SearchDepth: strings.TrimSpace(draft.SearchDepth),
		Timezone:    strings.TrimSpace(draft.Timezone),
	}
	var changed []string
	reset := false

	switch token := out.Credential; {
	case token == r.committed.CredentialToken:
	case token == "":
		r.reject(FieldCredential, "empty credential")
		out.Credential = r.committed.CredentialToken
	case r.validCredential(ctx, token):
		next.CredentialToken = token
		changed = append(changed, FieldCredential)
		reset = true
	default:
		r.reject(FieldCredential, "credential rejected by provider")
		out.Credential = r.committed.CredentialToken
	}

	if depth, ok := parseDepth(out.SearchDepth); !ok {
		r.reject(FieldSearchDepth, "search depth must be a whole number from 0 to "+strconv.Itoa(artist.MaxSearchDepth))
		out.SearchDepth = strconv.Itoa(r.committed.SearchDepth)
	} else {
		out.SearchDepth = strconv.Itoa(depth)
		if depth != r.committed.SearchDepth {
			next.SearchDepth = depth
			changed = append(changed, FieldSearchDepth)
		}
	}

	switch zone := out.Timezone; {
	case zone == r.committed.TimezoneName:
	case zone == "":
		out.Timezone = artist.DefaultTimezone
		if artist.DefaultTimezone != r.committed.TimezoneName {
			next.TimezoneName = artist.DefaultTimezone
			changed = append(changed, FieldTimezone)
		}
	case r.validTimezone(ctx, zone):
		next.TimezoneName = zone
		changed = append(changed, FieldTimezone)
	default:
		r.reject(FieldTimezone, "timezone rejected by provider")
		out.Timezone = r.committed.TimezoneName
	}

	if len(changed) > 0 {
		row := store.SettingsRow{
			CredentialToken: next.CredentialToken,
			SearchDepth:     next.SearchDepth,
			Timezone:        next.TimezoneName,
		}
		if err := r.store.SaveSettings(ctx, row); err != nil {
			return Result{Committed: r.committed, Draft: DraftOf(r.committed)},
				services.Wrap(services.ErrPersistFailed, "settings", "commit", "", err)
		}
		r.committed = next
		r.logger.Info("settings committed",
			logging.String("fields", strings.Join(changed, ",")),
			logging.Bool("full_reset", reset),
		)
	}
	r.draft = out
	return Result{
		Committed:         r.committed,
		RequiresFullReset: reset,
		Changed:           changed,
		Draft:             out,
	}, nil
}

// parseDepth accepts an empty string as the default depth.
func parseDepth(text string) (int, bool) {
	if text == "" {
		return artist.DefaultSearchDepth, true
	}
	depth, err := strconv.Atoi(text)
	if err != nil || depth < 0 || depth > artist.MaxSearchDepth {
		return 0, false
	}
	return depth, true
}

func (r *Reconciler) validCredential(ctx context.Context, token string) bool {
	ok, err := r.provider.ValidateCredential(ctx, token)
	if err != nil {
		r.logger.Debug("credential validation failed", logging.Error(err))
		return false
	}
	return ok
}

func (r *Reconciler) validTimezone(ctx context.Context, zone string) bool {
	ok, err := r.provider.ValidateTimezone(ctx, zone)
	if err != nil {
		r.logger.Debug("timezone validation failed", logging.Error(err))
		return false
	}
	return ok
}

func (r *Reconciler) reject(field, reason string) {
	r.logger.Info("settings field reverted",
		logging.String("field", field),
		logging.String("reason", reason),
	)
}
