// ABOUTME: Video resolver: submit a Veo operation, poll it to completion, fetch the bytes.
// ABOUTME: Polling is bounded; hitting the cap is a GenerationError, not a hang.

package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"google.golang.org/genai"
)

// ErrVideoTimeout indicates the video operation did not finish within the
// polling budget.
var ErrVideoTimeout = errors.New("video operation did not complete in time")

const (
	videoResolution  = "720p"
	videoAspectRatio = "16:9"
)

// videoOps abstracts the long-running-operation surface of the provider so
// the polling loop can be exercised without a network.
type videoOps interface {
	Start(ctx context.Context, prompt string) (*genai.GenerateVideosOperation, error)
	Poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}

// geminiVideoOps is the real provider-backed operation surface.
type geminiVideoOps struct {
	client *genai.Client
	model  string
}

func (g *geminiVideoOps) Start(ctx context.Context, prompt string) (*genai.GenerateVideosOperation, error) {
	return g.client.Models.GenerateVideos(ctx, g.model, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     videoResolution,
		AspectRatio:    videoAspectRatio,
	})
}

func (g *geminiVideoOps) Poll(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	return g.client.Operations.GetVideosOperation(ctx, op, nil)
}

// VideoGenerator materializes prompts into locally addressable video files.
type VideoGenerator struct {
	ops          videoOps
	fetch        func(ctx context.Context, uri string) ([]byte, error)
	pollInterval time.Duration
	maxPolls     int
	outDir       string
	logger       *slog.Logger
}

// NewVideoGenerator creates a video resolver. The apiKey is appended to the
// result URI when fetching bytes, which is how the provider authorizes
// video downloads. Pass nil logger for default.
func NewVideoGenerator(client *genai.Client, model, apiKey string, pollInterval time.Duration, maxPolls int, logger *slog.Logger) *VideoGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: 2 * time.Minute}
	return &VideoGenerator{
		ops: &geminiVideoOps{client: client, model: model},
		fetch: func(ctx context.Context, uri string) ([]byte, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+"&key="+apiKey, nil)
			if err != nil {
				return nil, err
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetching video: status %d", resp.StatusCode)
			}
			return io.ReadAll(resp.Body)
		},
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		outDir:       os.TempDir(),
		logger:       logger.With("component", "actions.video"),
	}
}

// Generate submits the prompt, polls the operation to completion, and
// writes the resulting bytes to a local file. The returned media reference
// is the file path.
func (g *VideoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	op, err := g.ops.Start(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Op: "video", Err: err}
	}

	for attempt := 0; op == nil || !op.Done; attempt++ {
		if attempt >= g.maxPolls {
			return "", &GenerationError{Op: "video", Err: ErrVideoTimeout}
		}
		select {
		case <-time.After(g.pollInterval):
		case <-ctx.Done():
			return "", &GenerationError{Op: "video", Err: ctx.Err()}
		}
		op, err = g.ops.Poll(ctx, op)
		if err != nil {
			return "", &GenerationError{Op: "video", Err: err}
		}
	}

	video := firstVideo(op)
	if video == nil {
		return "", &GenerationError{Op: "video", Err: errors.New("operation completed without a video")}
	}

	data := video.VideoBytes
	if len(data) == 0 {
		if video.URI == "" {
			return "", &GenerationError{Op: "video", Err: errors.New("no video URI in result")}
		}
		data, err = g.fetch(ctx, video.URI)
		if err != nil {
			return "", &GenerationError{Op: "video", Err: err}
		}
	}

	path, err := g.materialize(data)
	if err != nil {
		return "", &GenerationError{Op: "video", Err: err}
	}

	g.logger.Debug("video generated", "path", path, "bytes", len(data))
	return path, nil
}

// firstVideo digs the first generated video out of a completed operation.
func firstVideo(op *genai.GenerateVideosOperation) *genai.Video {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil
	}
	return op.Response.GeneratedVideos[0].Video
}

// materialize writes video bytes to a locally addressable file.
func (g *VideoGenerator) materialize(data []byte) (string, error) {
	f, err := os.CreateTemp(g.outDir, "pixelchat-*.mp4")
	if err != nil {
		return "", fmt.Errorf("creating video file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing video file: %w", err)
	}
	return f.Name(), nil
}
