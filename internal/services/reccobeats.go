// ReccoBeats audio-feature enrichment client
package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscope/internal/models"
	"github.com/desertthunder/soundscope/internal/shared"
	"github.com/go-resty/resty/v2"
)

const (
	defaultFeaturesBaseURL = "https://api.reccobeats.com/v1"

	// featureBatchLimit is the provider-imposed ceiling on ids per call.
	featureBatchLimit = 40
)

// FeaturesClient fetches audio features by Spotify track id, chunking
// requests to the provider's batch ceiling.
type FeaturesClient struct {
	http   *resty.Client
	logger *log.Logger
}

// NewFeaturesClient creates a features client for the given base URL.
func NewFeaturesClient(baseURL string, logger *log.Logger) *FeaturesClient {
	if baseURL == "" {
		baseURL = defaultFeaturesBaseURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout)

	return &FeaturesClient{
		http:   client,
		logger: shared.WithLogger(logger, "service", "reccobeats"),
	}
}

// featureRow is one entry of the provider's response. The href points back
// at the Spotify track; its last path segment is the Spotify id. Dimensions
// stay pointers so a missing value is distinguishable from zero.
type featureRow struct {
	ID               string   `json:"id"`
	Href             string   `json:"href"`
	Energy           *float64 `json:"energy"`
	Danceability     *float64 `json:"danceability"`
	Valence          *float64 `json:"valence"`
	Acousticness     *float64 `json:"acousticness"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Tempo            *float64 `json:"tempo"`
}

type featuresResponse struct {
	Content []featureRow `json:"content"`
}

// AudioFeatures fetches feature rows for the given track ids, splitting
// into batches of [featureBatchLimit]. Tracks unknown to the provider are
// simply absent from the result.
func (f *FeaturesClient) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.AudioFeatures, error) {
	if len(trackIDs) == 0 {
		return nil, nil
	}

	var features []models.AudioFeatures
	for start := 0; start < len(trackIDs); start += featureBatchLimit {
		end := start + featureBatchLimit
		if end > len(trackIDs) {
			end = len(trackIDs)
		}

		batch, err := f.fetchBatch(ctx, trackIDs[start:end])
		if err != nil {
			return nil, err
		}
		features = append(features, batch...)
	}

	f.logger.Debug("fetched audio features", "requested", len(trackIDs), "returned", len(features))
	return features, nil
}

func (f *FeaturesClient) fetchBatch(ctx context.Context, ids []string) ([]models.AudioFeatures, error) {
	var response featuresResponse

	resp, err := f.http.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetResult(&response).
		Get("/audio-features")
	if err != nil {
		return nil, remoteTransportError(err)
	}
	if resp.IsError() {
		return nil, remoteStatusError(resp.StatusCode(), resp.Body())
	}

	features := make([]models.AudioFeatures, 0, len(response.Content))
	for _, row := range response.Content {
		trackID := spotifyIDFromHref(row.Href)
		if trackID == "" {
			continue
		}
		features = append(features, models.AudioFeatures{
			TrackID:          trackID,
			Energy:           row.Energy,
			Danceability:     row.Danceability,
			Valence:          row.Valence,
			Acousticness:     row.Acousticness,
			Instrumentalness: row.Instrumentalness,
			Tempo:            row.Tempo,
		})
	}
	return features, nil
}

// spotifyIDFromHref extracts the trailing path segment of a track href.
func spotifyIDFromHref(href string) string {
	if href == "" {
		return ""
	}
	parts := strings.Split(strings.TrimSuffix(href, "/"), "/")
	return parts[len(parts)-1]
}
