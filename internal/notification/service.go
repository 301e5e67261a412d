// Package notification tracks the per-room "new message" flag on the backend.
//
// Flags are cheap, best-effort UX signals, not a messaging guarantee: a lost
// flag is acceptable, a duplicate toast is not, so Clear always follows a
// displayed Check.
package notification

import (
	"context"
	"strconv"
	"strings"

	"chatrum/internal/gateway"

	"go.uber.org/zap"
)

type Service struct {
	gw     *gateway.Client
	logger *zap.SugaredLogger
}

func NewService(gw *gateway.Client, logger *zap.SugaredLogger) *Service {
	return &Service{gw: gw, logger: logger}
}

// Store sets the new-message flag for a room. Fire and forget: failures are
// logged, never returned. Setting an already-set flag is absorbed.
func (s *Service) Store(ctx context.Context, roomID string) {
	if err := s.gw.Post(ctx, "api/notification/set_new_message_flag/"+roomID); err != nil {
		s.logger.Errorf("failed to store new message flag for room %s: %v", roomID, err)
		return
	}
	s.logger.Debugf("stored new message flag for room %s", roomID)
}

// Check reports whether a room has an unseen flag. Any failure — transport,
// non-success status, unparsable body — reads as false, never as an error.
func (s *Service) Check(ctx context.Context, roomID string) bool {
	body, err := s.gw.GetText(ctx, "api/notification/check_new_message_flag/"+roomID)
	if err != nil {
		s.logger.Debugf("no new message flag for room %s: %v", roomID, err)
		return false
	}
	set, err := strconv.ParseBool(strings.TrimSpace(body))
	if err != nil {
		s.logger.Debugf("unparsable flag body for room %s: %q", roomID, body)
		return false
	}
	s.logger.Debugf("new message flag for room %s: %v", roomID, set)
	return set
}

// Clear resets the flag after it has been surfaced. Fire and forget.
func (s *Service) Clear(ctx context.Context, roomID string) {
	if err := s.gw.Post(ctx, "api/notification/clear_new_message_flag/"+roomID); err != nil {
		s.logger.Errorf("failed to clear new message flag for room %s: %v", roomID, err)
		return
	}
	s.logger.Debugf("cleared new message flag for room %s", roomID)
}
