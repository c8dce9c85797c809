// Package v1alpha1 handles the game grpc service interface
package v1alpha1

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
)

// HandlerConfig holds dependencies for the game handler
type HandlerConfig struct {
	SessionService session.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c.SessionService == nil {
		return errors.InvalidArgument("session service is required")
	}
	return nil
}

// Handler implements the game gRPC service
type Handler struct {
	UnimplementedGameServiceServer
	sessionService session.Service
}

// NewHandler creates a new game handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("handler config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		sessionService: cfg.SessionService,
	}, nil
}

type startSessionResponse struct {
	SessionID string         `json:"session_id"`
	Seed      string         `json:"seed"`
	Snapshot  *game.Snapshot `json:"snapshot"`
}

type noticesResponse struct {
	Notices  []notice.Notice `json:"notices"`
	Snapshot *game.Snapshot  `json:"snapshot"`
}

type snapshotResponse struct {
	Snapshot *game.Snapshot `json:"snapshot"`
}

type endSessionResponse struct {
	SessionID string `json:"session_id"`
	Ticks     uint64 `json:"ticks"`
}

type sessionInfo struct {
	ID         string `json:"id"`
	Seed       string `json:"seed"`
	Lang       string `json:"lang"`
	Area       string `json:"area"`
	Level      int    `json:"level"`
	Tick       uint64 `json:"tick"`
	CreatedAt  string `json:"created_at"`
	LastActive string `json:"last_active"`
}

type listSessionsResponse struct {
	Sessions []sessionInfo `json:"sessions"`
}

// StartSession starts a new game
func (h *Handler) StartSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	seed, err := optionalSeed(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.StartSession(ctx, &session.StartSessionInput{
		Seed: seed,
		Lang: stringField(req, "lang"),
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&startSessionResponse{
		SessionID: out.SessionID,
		Seed:      strconv.FormatUint(out.Seed, 10),
		Snapshot:  out.Snapshot,
	})
}

// SendInput applies one tick of intents
func (h *Handler) SendInput(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredSessionID(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	intents, err := stringList(req, "intents")
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.SendInput(ctx, &session.SendInputInput{
		SessionID: sessionID,
		Intents:   intents,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&noticesResponse{
		Notices:  nonNilNotices(out.Notices),
		Snapshot: out.Snapshot,
	})
}

// GetSnapshot returns the current frame of a game
func (h *Handler) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredSessionID(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.GetSnapshot(ctx, &session.GetSnapshotInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&snapshotResponse{Snapshot: out.Snapshot})
}

// ResetSession restarts a game from scratch
func (h *Handler) ResetSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredSessionID(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.ResetSession(ctx, &session.ResetSessionInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&noticesResponse{
		Notices:  nonNilNotices(out.Notices),
		Snapshot: out.Snapshot,
	})
}

// EndSession drops a game
func (h *Handler) EndSession(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	sessionID, err := requiredSessionID(req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := h.sessionService.EndSession(ctx, &session.EndSessionInput{SessionID: sessionID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return respond(&endSessionResponse{
		SessionID: sessionID,
		Ticks:     out.Ticks,
	})
}

// ListSessions lists running games
func (h *Handler) ListSessions(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	out, err := h.sessionService.ListSessions(ctx, &session.ListSessionsInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp := &listSessionsResponse{Sessions: make([]sessionInfo, 0, len(out.Sessions))}
	for _, info := range out.Sessions {
		if info == nil {
			continue
		}
		resp.Sessions = append(resp.Sessions, sessionInfo{
			ID:         info.ID,
			Seed:       strconv.FormatUint(info.Seed, 10),
			Lang:       info.Lang,
			Area:       info.Area,
			Level:      info.Level,
			Tick:       info.Tick,
			CreatedAt:  info.CreatedAt.UTC().Format(time.RFC3339Nano),
			LastActive: info.LastActive.UTC().Format(time.RFC3339Nano),
		})
	}

	return respond(resp)
}

func nonNilNotices(in []notice.Notice) []notice.Notice {
	if in == nil {
		return []notice.Notice{}
	}
	return in
}

func respond(v any) (*structpb.Struct, error) {
	s, err := ToStruct(v)
	if err != nil {
		return nil, errors.ToGRPCError(errors.Wrap(err, "failed to encode response"))
	}
	return s, nil
}

// ToStruct converts any JSON-encodable value into a Struct
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal json")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, errors.Wrap(err, "failed to convert json to struct")
	}
	return out, nil
}

// FromStruct decodes a Struct into v through its JSON form
func FromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to convert struct to json")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "failed to unmarshal json")
	}
	return nil
}
