package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SwipeService records a user's single decision on a venue and fans it out
// to every group that was active for the user at call time.
type SwipeService struct {
	Store        DocumentStore
	ActiveGroups *ActiveGroupService
	Matches      *MatchService
	Limiter      *SwipeRateLimiter
	Logger       *slog.Logger
}

// SwipeResult reports what a recorded swipe did: which groups it fanned
// out to and which of them were pushed over their match threshold by it.
type SwipeResult struct {
	Swipe      models.Swipe   `json:"swipe"`
	GroupIDs   []string       `json:"groupIds"`
	NewMatches []models.Match `json:"newMatches,omitempty"`
}

func (s *SwipeService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Record creates the global (user, venue) swipe, fans a GroupSwipe out to
// each active group, and forwards likes to the match engine. A repeated
// swipe on the same venue is a Conflict and leaves all state untouched;
// retries after transient store failures are safe because every write here
// is keyed to be idempotent.
func (s *SwipeService) Record(ctx context.Context, userID, locationID, direction string, venue models.VenueSnapshot) (*SwipeResult, error) {
	start := time.Now()
	if userID == "" || locationID == "" {
		return nil, apperrors.New(apperrors.Validation, "userId and locationId are required")
	}
	if direction != models.SwipeDirectionLike && direction != models.SwipeDirectionDislike {
		return nil, apperrors.Newf(apperrors.Validation, "direction must be %q or %q",
			models.SwipeDirectionLike, models.SwipeDirectionDislike)
	}
	if !s.Limiter.Allow(userID) {
		return nil, apperrors.New(apperrors.RateLimited, "too many swipes, slow down")
	}

	// The fan-out set is the user's active groups at the time of this
	// call; later toggles only affect later swipes.
	active, err := s.ActiveGroups.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	swipe := models.Swipe{
		UserID:     userID,
		LocationID: locationID,
		Direction:  direction,
		CreatedAt:  now,
	}
	if err := s.Store.CreateItem(ctx, models.SwipesTable, swipe, "userId"); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, apperrors.Newf(apperrors.Conflict, "user %s already swiped venue %s", userID, locationID)
		}
		return nil, fmt.Errorf("failed to record swipe: %w", err)
	}

	result := &SwipeResult{Swipe: swipe, GroupIDs: make([]string, 0, len(active))}
	for _, group := range active {
		groupSwipe := models.GroupSwipe{
			GroupID:    group.GroupID,
			SwipeKey:   models.GroupSwipeKey(userID, locationID),
			UserID:     userID,
			LocationID: locationID,
			Direction:  direction,
			CreatedAt:  now,
		}
		err := s.Store.CreateItem(ctx, models.GroupSwipesTable, groupSwipe, "groupId")
		if err != nil && !errors.Is(err, ErrConditionFailed) {
			return nil, fmt.Errorf("failed to fan swipe out to group %s: %w", group.GroupID, err)
		}
		result.GroupIDs = append(result.GroupIDs, group.GroupID)

		if direction == models.SwipeDirectionLike {
			tally, newlyMatched, err := s.Matches.RegisterLike(ctx, group.GroupID, locationID, userID, venue)
			if err != nil {
				if apperrors.IsKind(err, apperrors.NotFound) {
					continue // group vanished mid-call; the fan-out record is cleaned up by the cascade
				}
				return nil, err
			}
			if newlyMatched {
				result.NewMatches = append(result.NewMatches, *tally)
			}
		}
	}

	s.logger().InfoContext(ctx, "swipe recorded",
		"userId", userID,
		"locationId", locationID,
		"direction", direction,
		"groups", len(result.GroupIDs),
		"newMatches", len(result.NewMatches),
		"elapsed", time.Since(start))
	return result, nil
}

// GetGroupSwipes lists the fan-out records for one group, an ops-facing
// view of who has decided on what.
func (s *SwipeService) GetGroupSwipes(ctx context.Context, groupID string) ([]models.GroupSwipe, error) {
	if groupID == "" {
		return nil, apperrors.New(apperrors.Validation, "groupId is required")
	}
	items, err := s.Store.QueryItems(ctx, models.GroupSwipesTable, "groupId = :g",
		map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query group swipes for %s: %w", groupID, err)
	}

	var swipes []models.GroupSwipe
	if err := attributevalue.UnmarshalListOfMaps(items, &swipes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group swipes for %s: %w", groupID, err)
	}
	return swipes, nil
}
