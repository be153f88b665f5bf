package itemservice

import (
	"context"
)

// FallbackService is an ItemService that tries a primary service and falls back to another one on failure.
type FallbackService struct {
	// Primary is the service attempted first.
	Primary ItemService

	// Fallback is the service attempted only after Primary has returned an error.
	Fallback ItemService
}

var _ ItemService = (*FallbackService)(nil)

// Fallback returns an ItemService that loads items from primary and, if it fails, from fallback.
func Fallback(primary, fallback ItemService) ItemService {
	return &FallbackService{Primary: primary, Fallback: fallback}
}

// LoadItems loads items from the primary service.
// If the primary succeeds, its result is returned unchanged and the fallback is never invoked.
// If the primary fails, the result of the fallback is returned unchanged, whether it succeeds or fails.
// The error of the primary is discarded.
func (s *FallbackService) LoadItems(ctx context.Context) ([]ItemView, error) {
	items, err := s.Primary.LoadItems(ctx)
	if err == nil {
		return items, nil
	}
	return s.Fallback.LoadItems(ctx)
}

// Retry returns an ItemService that attempts the service up to count+1 times.
// It chains the service to itself with Fallback, so every error is retried and
// the error of the last attempt is returned when all of them fail.
// Side effects of the service (e.g. cache writes) happen on each attempt.
// Retry with zero count returns the service itself.
func Retry(service ItemService, count uint) ItemService {
	s := service
	for range count {
		s = Fallback(s, service)
	}
	return s
}
