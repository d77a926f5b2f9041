// ABOUTME: Web and maps search resolvers producing a summary plus citation links.
// ABOUTME: Web search never fails hard; maps falls back to fixed coordinates.

package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/pixelmbti/chat/internal/chat"
)

// Fallback summaries when the grounding call yields no text.
const (
	webFallbackSummary  = "I couldn't find anything."
	mapsFallbackSummary = "No location found."
)

// locateTimeout bounds how long the maps resolver waits for a position fix.
const locateTimeout = 5 * time.Second

// WebSearcher answers a query with grounded search results.
type WebSearcher struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewWebSearcher creates a web search resolver. Pass nil logger for default.
func NewWebSearcher(client *genai.Client, model string, logger *slog.Logger) *WebSearcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSearcher{
		client: client,
		model:  model,
		logger: logger.With("component", "actions.web"),
	}
}

// Search summarizes what the web knows about the query. An empty reply is
// not an error: the fallback summary with no links is returned instead.
func (s *WebSearcher) Search(ctx context.Context, query string) (*chat.SearchResult, error) {
	prompt := fmt.Sprintf("Find information about: %s. Summarize it briefly for a chat message.", query)
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		})
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	result := &chat.SearchResult{Summary: resp.Text()}
	if result.Summary == "" {
		result.Summary = webFallbackSummary
	}
	for _, chunk := range groundingChunks(resp) {
		if chunk.Web == nil {
			continue
		}
		result.Links = append(result.Links, chat.LinkMeta{Title: chunk.Web.Title, URL: chunk.Web.URI})
	}

	s.logger.Debug("web search resolved", "query", query, "links", len(result.Links))
	return result, nil
}

// LatLng is a geographic position used to bias maps grounding.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// Locator obtains the caller's current position. Implementations should
// honor the context deadline; the resolver falls back to fixed coordinates
// when the lookup fails or times out.
type Locator interface {
	Locate(ctx context.Context) (LatLng, error)
}

// MapsSearcher answers locality queries with map-grounded results.
type MapsSearcher struct {
	client   *genai.Client
	model    string
	locator  Locator
	fallback LatLng
	logger   *slog.Logger
}

// NewMapsSearcher creates a maps search resolver. locator may be nil, in
// which case the fallback coordinates are always used. Pass nil logger for
// default.
func NewMapsSearcher(client *genai.Client, model string, locator Locator, fallback LatLng, logger *slog.Logger) *MapsSearcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &MapsSearcher{
		client:   client,
		model:    model,
		locator:  locator,
		fallback: fallback,
		logger:   logger.With("component", "actions.maps"),
	}
}

// Search biases the query to the caller's position (bounded lookup, fixed
// fallback) and returns map-grounded results in the same shape as the web
// resolver.
func (s *MapsSearcher) Search(ctx context.Context, query string) (*chat.SearchResult, error) {
	position := s.position(ctx)

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(query),
		&genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
			ToolConfig: &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  &position.Latitude,
						Longitude: &position.Longitude,
					},
				},
			},
		})
	if err != nil {
		return nil, fmt.Errorf("maps search: %w", err)
	}

	result := &chat.SearchResult{Summary: resp.Text()}
	if result.Summary == "" {
		result.Summary = mapsFallbackSummary
	}
	for _, chunk := range groundingChunks(resp) {
		if chunk.Maps == nil {
			continue
		}
		result.Links = append(result.Links, chat.LinkMeta{Title: chunk.Maps.Title, URL: chunk.Maps.URI})
	}

	s.logger.Debug("maps search resolved", "query", query, "links", len(result.Links))
	return result, nil
}

// position resolves the caller's coordinates with a bounded wait, falling
// back to the configured default on failure, timeout, or denial.
func (s *MapsSearcher) position(ctx context.Context) LatLng {
	if s.locator == nil {
		return s.fallback
	}

	locateCtx, cancel := context.WithTimeout(ctx, locateTimeout)
	defer cancel()

	pos, err := s.locator.Locate(locateCtx)
	if err != nil {
		s.logger.Debug("geolocation unavailable, using fallback", "error", err)
		return s.fallback
	}
	return pos
}

// StaticLocator reports a fixed position, e.g. one configured by the user.
type StaticLocator struct {
	Position LatLng
}

func (l *StaticLocator) Locate(_ context.Context) (LatLng, error) {
	return l.Position, nil
}

// groundingChunks flattens the grounding metadata of the first candidate.
func groundingChunks(resp *genai.GenerateContentResponse) []*genai.GroundingChunk {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	return resp.Candidates[0].GroundingMetadata.GroundingChunks
}
