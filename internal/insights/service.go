package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/repository"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var ErrUpstream = errors.New("insights upstream failure")

//go:generate mockgen -source=service.go -destination=../mocks/insights_mock.go -package=mocks -mock_names=Service=MockInsightsService

// Service answers questions about a user's training history.
type Service interface {
	Ask(ctx context.Context, ownerID, query string) (string, error)
}

type service struct {
	workoutRepo repository.WorkoutRepository
	generator   Generator
	cache       *freecache.Cache
	cacheTTL    time.Duration
	metrics     *metrics.Manager
}

// NewService creates an insights service. cacheSizeMB <= 0 disables caching.
func NewService(
	workoutRepo repository.WorkoutRepository,
	generator Generator,
	cacheSizeMB int,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) Service {
	s := &service{
		workoutRepo: workoutRepo,
		generator:   generator,
		cacheTTL:    cacheTTL,
		metrics:     metricsManager,
	}
	if cacheSizeMB > 0 {
		s.cache = freecache.NewCache(cacheSizeMB * 1024 * 1024)
	}
	return s
}

func cacheKey(ownerID, prompt string) []byte {
	sum := sha256.Sum256([]byte(ownerID + "\x00" + prompt))
	return []byte("insights::" + hex.EncodeToString(sum[:]))
}

func (s *service) Ask(ctx context.Context, ownerID, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = DefaultQuery
	}

	workouts, err := s.workoutRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("load workouts: %w", err)
	}

	prompt, err := BuildPrompt(query, workouts)
	if err != nil {
		return "", err
	}

	key := cacheKey(ownerID, prompt)
	if s.cache != nil {
		if cached, err := s.cache.Get(key); err == nil {
			log.Tracef("insights answer for %s found in cache", ownerID)
			if s.metrics != nil {
				s.metrics.CounterInsightsCacheHits.Inc()
			}
			return string(cached), nil
		}
	}

	begin := time.Now()
	answer, err := s.generator.Generate(ctx, prompt)
	if s.metrics != nil {
		s.metrics.HistInsightsDuration.Observe(time.Since(begin).Seconds())
	}
	if err != nil {
		log.Errorf("insights for %s: %s", ownerID, err)
		return "", fmt.Errorf("%w: %s", ErrUpstream, err)
	}
	if answer == "" {
		// fallback replies are not cached
		return FallbackReply, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(key, []byte(answer), int(s.cacheTTL.Seconds())); err != nil {
			log.Errorf("failed to cache insights answer for %s: %s", ownerID, err)
		}
	}

	return answer, nil
}

