package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"par/internal/artist"
	"par/internal/logging"
)

const (
	// EnvToken carries the credential to the helper so it never appears in argv.
	EnvToken = "PAR_TOKEN"
	// EnvImageDir names the directory the helper writes downloaded images into.
	EnvImageDir = "PAR_IMAGE_DIR"
)

// CommandProvider runs a helper executable for every remote call.
//
// The helper is invoked as `<binary> [args...] <command> [command args...]`
// and must print a single JSON value on stdout and exit 0. Images fetched by
// download_artist_info are written to $PAR_IMAGE_DIR as u_<artist>.jpeg and
// i_<illust>.jpeg.
type CommandProvider struct {
	binary string
	args   []string
	logger *slog.Logger
}

// NewCommandProvider returns a provider that shells out to binary.
func NewCommandProvider(binary string, args []string, logger *slog.Logger) *CommandProvider {
	return &CommandProvider{
		binary: strings.TrimSpace(binary),
		args:   append([]string(nil), args...),
		logger: logging.NewComponentLogger(logger, "remote"),
	}
}

func (p *CommandProvider) run(ctx context.Context, token string, env []string, command string, args ...string) ([]byte, error) {
	if p.binary == "" {
		return nil, errors.New("provider command not configured")
	}
	argv := append(append([]string(nil), p.args...), command)
	argv = append(argv, args...)
	cmd := exec.CommandContext(ctx, p.binary, argv...)
	cmd.Env = append(os.Environ(), EnvToken+"="+token)
	cmd.Env = append(cmd.Env, env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	p.logger.Debug("running provider helper", logging.String("command", command))
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", filepath.Base(p.binary), command, err, strings.TrimSpace(stderr.String()))
	}
	return bytes.TrimSpace(stdout.Bytes()), nil
}

func (p *CommandProvider) runBool(ctx context.Context, token, command string, args ...string) (bool, error) {
	out, err := p.run(ctx, token, nil, command, args...)
	if err != nil {
		return false, err
	}
	var ok bool
	if err := json.Unmarshal(out, &ok); err != nil {
		return false, fmt.Errorf("decode %s result %q: %w", command, out, err)
	}
	return ok, nil
}

// ValidateCredential asks the helper whether token authenticates.
func (p *CommandProvider) ValidateCredential(ctx context.Context, token string) (bool, error) {
	ok, err := p.runBool(ctx, token, cmdValidateToken)
	if err != nil {
		return false, fetchFailed("validate credential", "", err)
	}
	return ok, nil
}

// ValidateTimezone asks the helper whether name is a known timezone.
func (p *CommandProvider) ValidateTimezone(ctx context.Context, name string) (bool, error) {
	ok, err := p.runBool(ctx, "", cmdValidateTimezone, name)
	if err != nil {
		return false, fetchFailed("validate timezone", name, err)
	}
	return ok, nil
}

// FetchArtistList returns followed artist ids in review order.
func (p *CommandProvider) FetchArtistList(ctx context.Context, token string) ([]uint32, error) {
	out, err := p.run(ctx, token, nil, cmdArtistList)
	if err != nil {
		return nil, fetchFailed("fetch artist list", "", err)
	}
	var ids []uint32
	if err := json.Unmarshal(out, &ids); err != nil {
		return nil, fetchFailed("fetch artist list", "decode ids", err)
	}
	return ids, nil
}

// FetchArtistRecord downloads one artist and its images into a scratch
// directory, then reads the images back into memory.
func (p *CommandProvider) FetchArtistRecord(ctx context.Context, settings artist.Settings, artistID uint32) (FetchResult, error) {
	scratch, err := os.MkdirTemp("", "par-fetch-*")
	if err != nil {
		return FetchResult{}, fetchFailed("fetch artist", "create scratch dir", err)
	}
	defer os.RemoveAll(scratch)

	out, err := p.run(ctx, settings.CredentialToken, []string{EnvImageDir + "=" + scratch}, cmdArtistInfo,
		strconv.FormatUint(uint64(artistID), 10),
		strconv.Itoa(settings.SearchDepth),
		settings.TimezoneName,
	)
	if err != nil {
		return FetchResult{}, fetchFailed("fetch artist", fmt.Sprintf("artist %d", artistID), err)
	}
	rec, err := decodeRecord(out, artistID)
	if err != nil {
		return FetchResult{}, fetchFailed("fetch artist", fmt.Sprintf("artist %d", artistID), err)
	}

	result := FetchResult{Record: rec}
	result.Images.Profile = readOptional(filepath.Join(scratch, ProfileImageName(artistID)))
	for i, illust := range rec.RecentIllustrations {
		if illust.Empty() {
			continue
		}
		result.Images.Illustrations[i] = readOptional(filepath.Join(scratch, IllustrationImageName(illust.ID)))
	}
	return result, nil
}

// ToggleBookmark asks the helper to flip the bookmark on illustID.
func (p *CommandProvider) ToggleBookmark(ctx context.Context, token string, illustID uint32, bookmarked bool) error {
	ok, err := p.runBool(ctx, token, cmdToggleBookmark,
		strconv.FormatUint(uint64(illustID), 10), strconv.FormatBool(bookmarked))
	if err != nil {
		return fetchFailed("toggle bookmark", fmt.Sprintf("illustration %d", illustID), err)
	}
	if !ok {
		return fetchFailed("toggle bookmark", fmt.Sprintf("illustration %d not toggled", illustID), nil)
	}
	return nil
}

// ToggleFollow asks the helper to flip the follow on artistID.
func (p *CommandProvider) ToggleFollow(ctx context.Context, token string, artistID uint32, followed bool) error {
	ok, err := p.runBool(ctx, token, cmdToggleFollow,
		strconv.FormatUint(uint64(artistID), 10), strconv.FormatBool(followed))
	if err != nil {
		return fetchFailed("toggle follow", fmt.Sprintf("artist %d", artistID), err)
	}
	if !ok {
		return fetchFailed("toggle follow", fmt.Sprintf("artist %d not toggled", artistID), nil)
	}
	return nil
}

func readOptional(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
