package storage

import (
	"context"
	"time"
)

// CleanupExpired removes sessions older than the configured maximum age and
// returns how many were deleted.
func (s *implStorage) CleanupExpired(ctx context.Context) int {
	maxAge := time.Duration(s.cfg.Storage.MaxSessionAgeHours) * time.Hour
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	var expired []string
	for id, sess := range s.sessions {
		if sess.meta.CreatedAt.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	removed := 0
	for _, id := range expired {
		if err := s.DeleteSession(id); err != nil {
			s.logger.Warn(ctx, "Failed to cleanup session %s: %v", id, err)
			continue
		}
		s.logger.Info(ctx, "Cleaned up expired session: %s", id)
		removed++
	}

	return removed
}
