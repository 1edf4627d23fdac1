package review

import (
	"context"
	"encoding/json"
	"math"

	"roamly/models"
	"roamly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// round1 rounds a rating average to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// refreshServiceRating recomputes the service's public rating aggregate after
// a ledger commit and writes it to the catalog and the cache. The aggregate
// is derived data: a failure here is logged and the next ledger commit (or
// the cache TTL) heals it, the committed review is never rolled back.
func (s *DefaultReviewService) refreshServiceRating(ctx context.Context, serviceID string) {
	rating, err := s.Reviews.AggregateServiceRating(ctx, serviceID)
	if err != nil {
		s.logger().Warn("failed to aggregate service rating",
			zap.String("serviceId", serviceID), zap.Error(err))
		return
	}
	rating.Average = round1(rating.Average)

	if err := s.Catalog.UpdateRating(ctx, serviceID, rating); err != nil {
		s.logger().Warn("failed to store service rating",
			zap.String("serviceId", serviceID), zap.Error(err))
		return
	}

	s.cacheRating(ctx, serviceID, rating)
}

// GetServiceRating serves the aggregate from cache when possible, falling
// back to the catalog document.
func (s *DefaultReviewService) GetServiceRating(ctx context.Context, serviceID string) (models.ServiceRating, error) {
	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, utils.RatingCachePrefix+serviceID).Result()
		if err == nil {
			var rating models.ServiceRating
			if jsonErr := json.Unmarshal([]byte(cached), &rating); jsonErr == nil {
				return rating, nil
			}
		} else if err != redis.Nil {
			s.logger().Warn("rating cache read failed", zap.String("serviceId", serviceID), zap.Error(err))
		}
	}

	svc, err := s.Catalog.GetByID(ctx, serviceID)
	if err != nil {
		return models.ServiceRating{}, err
	}
	s.cacheRating(ctx, serviceID, svc.Rating)
	return svc.Rating, nil
}

func (s *DefaultReviewService) cacheRating(ctx context.Context, serviceID string, rating models.ServiceRating) {
	if s.Cache == nil {
		return
	}
	b, err := json.Marshal(rating)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, utils.RatingCachePrefix+serviceID, b, utils.RatingCacheTTL).Err(); err != nil {
		s.logger().Warn("rating cache write failed", zap.String("serviceId", serviceID), zap.Error(err))
	}
}
