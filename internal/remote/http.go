package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"par/internal/artist"
	"par/internal/logging"
)

// maxImageBytes caps a single image download.
const maxImageBytes = 16 << 20

// HTTPDoer describes the HTTP client used by HTTPProvider.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPProvider posts JSON requests to a bridge service at baseURL. Each
// command maps to POST <baseURL>/<command>; the credential travels as a
// bearer token.
type HTTPProvider struct {
	baseURL string
	client  HTTPDoer
	logger  *slog.Logger
}

// NewHTTPProvider constructs an HTTP-backed provider. A nil client uses
// http.DefaultClient.
func NewHTTPProvider(baseURL string, client HTTPDoer, logger *slog.Logger) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  client,
		logger:  logging.NewComponentLogger(logger, "remote"),
	}
}

type validResponse struct {
	Valid bool `json:"valid"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type listResponse struct {
	IDs []uint32 `json:"ids"`
}

type imageRefs struct {
	Images struct {
		Profile string   `json:"profile"`
		Illusts []string `json:"illusts"`
	} `json:"images"`
}

func (p *HTTPProvider) post(ctx context.Context, token, command string, body any, out any) error {
	if p.baseURL == "" {
		return fmt.Errorf("provider base_url not configured")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", command, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/"+command, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", command, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	p.logger.Debug("calling provider bridge", logging.String("command", command))
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", command, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", command, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", command, err)
	}
	return nil
}

// ValidateCredential asks the bridge whether token authenticates.
func (p *HTTPProvider) ValidateCredential(ctx context.Context, token string) (bool, error) {
	var resp validResponse
	if err := p.post(ctx, token, cmdValidateToken, struct{}{}, &resp); err != nil {
		return false, fetchFailed("validate credential", "", err)
	}
	return resp.Valid, nil
}

// ValidateTimezone asks the bridge whether name is a known timezone.
func (p *HTTPProvider) ValidateTimezone(ctx context.Context, name string) (bool, error) {
	var resp validResponse
	body := map[string]string{"timezone": name}
	if err := p.post(ctx, "", cmdValidateTimezone, body, &resp); err != nil {
		return false, fetchFailed("validate timezone", name, err)
	}
	return resp.Valid, nil
}

// FetchArtistList returns followed artist ids in review order.
func (p *HTTPProvider) FetchArtistList(ctx context.Context, token string) ([]uint32, error) {
	var resp listResponse
	if err := p.post(ctx, token, cmdArtistList, struct{}{}, &resp); err != nil {
		return nil, fetchFailed("fetch artist list", "", err)
	}
	return resp.IDs, nil
}

// FetchArtistRecord fetches one artist and downloads the image URLs the
// bridge returns. A failed image download leaves that image nil.
func (p *HTTPProvider) FetchArtistRecord(ctx context.Context, settings artist.Settings, artistID uint32) (FetchResult, error) {
	body := map[string]any{
		"artist_id":    artistID,
		"search_depth": settings.SearchDepth,
		"timezone":     settings.TimezoneName,
	}
	var raw json.RawMessage
	if err := p.post(ctx, settings.CredentialToken, cmdArtistInfo, body, &raw); err != nil {
		return FetchResult{}, fetchFailed("fetch artist", fmt.Sprintf("artist %d", artistID), err)
	}
	rec, err := decodeRecord(raw, artistID)
	if err != nil {
		return FetchResult{}, fetchFailed("fetch artist", fmt.Sprintf("artist %d", artistID), err)
	}
	var resp imageRefs
	if err := json.Unmarshal(raw, &resp); err != nil {
		return FetchResult{}, fetchFailed("fetch artist", "decode image urls", err)
	}

	result := FetchResult{Record: rec}
	result.Images.Profile = p.download(ctx, settings.CredentialToken, resp.Images.Profile)
	for i, illust := range rec.RecentIllustrations {
		if illust.Empty() || i >= len(resp.Images.Illusts) {
			continue
		}
		result.Images.Illustrations[i] = p.download(ctx, settings.CredentialToken, resp.Images.Illusts[i])
	}
	return result, nil
}

func (p *HTTPProvider) download(ctx context.Context, token, ref string) []byte {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	target, err := p.resolve(ref)
	if err != nil {
		p.logger.Debug("skipping image with bad url", logging.String("url", ref), logging.Error(err))
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logging.WarnWithContext(p.logger, "image download failed", "image_download",
			logging.String("url", target),
			logging.Error(err),
			logging.String(logging.FieldImpact, "image will be missing until the artist is reloaded"),
		)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logging.WarnWithContext(p.logger, "image download failed", "image_download",
			logging.String("url", target),
			logging.Int("status", resp.StatusCode),
			logging.String(logging.FieldImpact, "image will be missing until the artist is reloaded"),
		)
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil
	}
	return data
}

func (p *HTTPProvider) resolve(ref string) (string, error) {
	target, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if target.IsAbs() {
		return target.String(), nil
	}
	base, err := url.Parse(p.baseURL + "/")
	if err != nil {
		return "", err
	}
	return base.ResolveReference(target).String(), nil
}

// ToggleBookmark asks the bridge to flip the bookmark on illustID.
func (p *HTTPProvider) ToggleBookmark(ctx context.Context, token string, illustID uint32, bookmarked bool) error {
	var resp successResponse
	body := map[string]any{"illust_id": illustID, "bookmarked": bookmarked}
	if err := p.post(ctx, token, cmdToggleBookmark, body, &resp); err != nil {
		return fetchFailed("toggle bookmark", fmt.Sprintf("illustration %d", illustID), err)
	}
	if !resp.Success {
		return fetchFailed("toggle bookmark", fmt.Sprintf("illustration %d not toggled", illustID), nil)
	}
	return nil
}

// ToggleFollow asks the bridge to flip the follow on artistID.
func (p *HTTPProvider) ToggleFollow(ctx context.Context, token string, artistID uint32, followed bool) error {
	var resp successResponse
	body := map[string]any{"artist_id": artistID, "followed": followed}
	if err := p.post(ctx, token, cmdToggleFollow, body, &resp); err != nil {
		return fetchFailed("toggle follow", fmt.Sprintf("artist %d", artistID), err)
	}
	if !resp.Success {
		return fetchFailed("toggle follow", fmt.Sprintf("artist %d not toggled", artistID), nil)
	}
	return nil
}
