// ABOUTME: The turn sequencer: converts one user message into ordered agent replies.
// ABOUTME: Single-flight per room, strict plan order, per-turn failure containment.

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pixelmbti/chat/internal/chat"
)

// ErrRoomBusy indicates a turn is already being processed for the room.
var ErrRoomBusy = errors.New("room is busy")

// ErrNoCredential indicates no valid provider credential is configured.
var ErrNoCredential = errors.New("no valid credential")

// ErrEmptyMessage indicates a submission with neither text nor an image.
var ErrEmptyMessage = errors.New("empty message")

// apologySuffix is appended to a turn's text when its action resolver fails
// and the message degrades to plain text.
const apologySuffix = "\n(I tried to generate something but ran into an error!)"

// Pacing bounds for the inter-turn "typing" delay.
const (
	paceMin    = time.Second
	paceJitter = time.Second
)

// Director defines what the sequencer needs from the decision service.
type Director interface {
	Plan(ctx context.Context, history []chat.Message, roster []chat.Agent, userMsg chat.Message) (*chat.TurnPlan, error)
}

// MediaGenerator resolves a prompt into a media reference (image or video).
type MediaGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher resolves a query into a summary plus citation links.
type Searcher interface {
	Search(ctx context.Context, query string) (*chat.SearchResult, error)
}

// CredentialChecker gates submissions on a configured provider credential.
type CredentialChecker interface {
	HasValidCredential() bool
}

// RoomStore defines what the sequencer needs from room state.
type RoomStore interface {
	Room(id string) (*chat.Room, error)
	Append(roomID string, msg chat.Message) error
	AcquireBusy(roomID string) bool
	ReleaseBusy(roomID string)
	IsBusy(roomID string) bool
}

// Resolvers bundles the four action resolvers the sequencer dispatches to.
type Resolvers struct {
	Image MediaGenerator
	Video MediaGenerator
	Web   Searcher
	Maps  Searcher
}

// Service sequences agent turns for every room. One Service serves all
// rooms; rooms are processed independently and concurrently, with at most
// one in-flight turn per room.
type Service struct {
	store     RoomStore
	director  Director
	resolvers Resolvers
	creds     CredentialChecker
	pace      func(ctx context.Context)
	logger    *slog.Logger
}

// New creates a sequencer service. Pass nil logger for default.
func New(store RoomStore, director Director, resolvers Resolvers, creds CredentialChecker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		director:  director,
		resolvers: resolvers,
		creds:     creds,
		pace:      defaultPace,
		logger:    logger.With("component", "sequencer"),
	}
}

// defaultPace waits a uniform random delay in [paceMin, paceMin+paceJitter)
// or until the context is cancelled.
func defaultPace(ctx context.Context) {
	delay := paceMin + time.Duration(rand.Int64N(int64(paceJitter)))
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// Submit records a user message and kicks off turn processing for its room.
// Record first, then act: the user message is in the log even if the
// director later fails. The returned message is the appended user message.
//
// ctx must outlive the asynchronous turn; use the application context, not
// a per-keystroke one.
func (s *Service) Submit(ctx context.Context, roomID, text string, image *chat.ImagePayload) (*chat.Message, error) {
	if s.creds != nil && !s.creds.HasValidCredential() {
		return nil, ErrNoCredential
	}
	if strings.TrimSpace(text) == "" && image == nil {
		return nil, ErrEmptyMessage
	}
	if _, err := s.store.Room(roomID); err != nil {
		return nil, err
	}
	if s.store.IsBusy(roomID) {
		return nil, ErrRoomBusy
	}

	msg := chat.Message{
		ID:         uuid.New().String(),
		Sender:     chat.UserSender,
		SenderName: chat.UserName,
		Content:    text,
		Kind:       chat.KindText,
		CreatedAt:  time.Now(),
	}
	if image != nil {
		msg.Kind = chat.KindImage
		msg.Image = image
	}

	if err := s.store.Append(roomID, msg); err != nil {
		return nil, fmt.Errorf("recording user message: %w", err)
	}

	go func() {
		if err := s.ProcessUserTurn(ctx, roomID, msg); err != nil {
			s.logger.Warn("turn not processed", "room_id", roomID, "error", err)
		}
	}()

	return &msg, nil
}

// ProcessUserTurn runs the full decision-and-respond cycle for one user
// message. The message must already be in the room's log. The room's busy
// flag is held for the whole cycle and released on every exit path.
//
// Turns are emitted strictly in plan order; a failed action degrades its
// own message and never aborts sibling turns.
func (s *Service) ProcessUserTurn(ctx context.Context, roomID string, userMsg chat.Message) error {
	if !s.store.AcquireBusy(roomID) {
		return fmt.Errorf("%w: %s", ErrRoomBusy, roomID)
	}
	defer s.store.ReleaseBusy(roomID)

	room, err := s.store.Room(roomID)
	if err != nil {
		return err
	}

	plan, err := s.director.Plan(ctx, priorHistory(room.Messages, userMsg.ID), room.Agents, userMsg)
	if err != nil {
		// Deliberate silent degradation: the user sees no reply, not an error.
		s.logger.Error("director decision failed",
			"room_id", roomID,
			"error", err)
		return nil
	}

	for i, turn := range plan.Turns {
		speaker := room.AgentByPersonality(turn.Speaker)
		if speaker == nil {
			s.logger.Debug("skipping turn for absent speaker",
				"room_id", roomID,
				"speaker", turn.Speaker)
			continue
		}

		content, kind, mediaRef, link := s.resolveTurn(ctx, turn)

		msg := chat.Message{
			ID:         uuid.New().String(),
			Sender:     speaker.ID,
			SenderName: speaker.Name,
			Content:    content,
			Kind:       kind,
			MediaRef:   mediaRef,
			Link:       link,
			CreatedAt:  time.Now(),
		}
		if err := s.store.Append(roomID, msg); err != nil {
			s.logger.Error("appending agent message failed",
				"room_id", roomID,
				"error", err)
			return nil
		}

		if i < len(plan.Turns)-1 {
			s.pace(ctx)
		}
	}

	return nil
}

// resolveTurn dispatches a planned turn's action and shapes the resulting
// message fields. Resolver failures degrade to plain text with the apology
// suffix; they never propagate.
func (s *Service) resolveTurn(ctx context.Context, turn chat.PlannedTurn) (content string, kind chat.MessageKind, mediaRef string, link *chat.LinkMeta) {
	content = turn.Content
	kind = chat.KindText

	switch {
	case turn.Action == chat.ActionGenerateImage && turn.Query != "":
		if content == "" {
			content = "Here is a picture of " + turn.Query
		}
		ref, err := s.resolvers.Image.Generate(ctx, turn.Query)
		if err != nil {
			s.logger.Warn("image action failed", "query", turn.Query, "error", err)
			return content + apologySuffix, chat.KindText, "", nil
		}
		return content, chat.KindImage, ref, nil

	case turn.Action == chat.ActionGenerateVideo && turn.Query != "":
		if content == "" {
			content = "Check out this video of " + turn.Query
		}
		ref, err := s.resolvers.Video.Generate(ctx, turn.Query)
		if err != nil {
			s.logger.Warn("video action failed", "query", turn.Query, "error", err)
			return content + apologySuffix, chat.KindText, "", nil
		}
		return content, chat.KindVideo, ref, nil

	case turn.Action == chat.ActionSearch && turn.Query != "":
		searcher := s.resolvers.Web
		if routesToMaps(turn.Query) {
			searcher = s.resolvers.Maps
		}
		result, err := searcher.Search(ctx, turn.Query)
		if err != nil {
			s.logger.Warn("search action failed", "query", turn.Query, "error", err)
			return content + apologySuffix, chat.KindText, "", nil
		}
		content = content + "\n\n" + result.Summary
		if len(result.Links) > 0 {
			first := result.Links[0]
			link = &first
		}
		return content, chat.KindLink, "", link
	}

	return content, kind, "", nil
}

// routesToMaps applies the locality heuristic: queries mentioning "near" or
// "location" go to the maps resolver. Substring match, case-insensitive; a
// heuristic, not a guarantee.
func routesToMaps(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "near") || strings.Contains(q, "location")
}

// priorHistory returns the bounded context window preceding the new user
// message: everything before it, trimmed to the most recent entries the
// director consumes.
func priorHistory(messages []chat.Message, userMsgID string) []chat.Message {
	prior := messages
	if n := len(messages); n > 0 && messages[n-1].ID == userMsgID {
		prior = messages[:n-1]
	}
	const window = 10
	if len(prior) > window {
		prior = prior[len(prior)-window:]
	}
	return prior
}
