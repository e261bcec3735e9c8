package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchService is the consensus core. It keeps one like tally per
// (group, venue) pair and promotes the pair to a confirmed match the
// moment the tally reaches the majority threshold frozen at tally
// creation.
//
// All tally mutations are single atomic conditional updates against the
// store; concurrent likes from different devices can interleave in any
// order and the final count is still exact, with the matched transition
// firing exactly once.
type MatchService struct {
	Store  DocumentStore
	Logger *slog.Logger
}

func (s *MatchService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// RegisterLike folds one user's like into the (group, venue) tally and
// reports the resulting tally plus whether this like was the one that
// confirmed the match. Duplicate likes are absorbed, not errored: under
// concurrent access the caller has no cheap way to know whether a like
// already landed.
func (s *MatchService) RegisterLike(ctx context.Context, groupID, locationID, userID string, venue models.VenueSnapshot) (*models.Match, bool, error) {
	start := time.Now()
	if groupID == "" || locationID == "" || userID == "" {
		return nil, false, apperrors.New(apperrors.Validation, "groupId, locationId and userId are required")
	}

	tally, newlyMatched, err := s.registerLike(ctx, groupID, locationID, userID, venue)
	if err != nil {
		s.logger().ErrorContext(ctx, "registerLike failed",
			"groupId", groupID, "locationId", locationID, "userId", userID, "error", err)
		return nil, false, err
	}

	s.logger().InfoContext(ctx, "registerLike",
		"groupId", groupID,
		"locationId", locationID,
		"userId", userID,
		"matchCount", tally.MatchCount,
		"matchThreshold", tally.MatchThreshold,
		"isMatch", tally.IsMatch,
		"newlyMatched", newlyMatched,
		"elapsed", time.Since(start))
	return tally, newlyMatched, nil
}

func (s *MatchService) registerLike(ctx context.Context, groupID, locationID, userID string, venue models.VenueSnapshot) (*models.Match, bool, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if venue.LocationID == "" {
		venue.LocationID = locationID
	}

	// First like for this pair creates the tally, freezing the majority
	// threshold at the group's current size.
	threshold, err := s.currentThreshold(ctx, groupID)
	if err != nil {
		return nil, false, err
	}

	tally := models.Match{
		GroupID:        groupID,
		LocationID:     locationID,
		LikedBy:        []string{userID},
		MatchCount:     1,
		MatchThreshold: threshold,
		IsMatch:        1 >= threshold,
		Venue:          venue,
		CreatedAt:      now,
	}
	if tally.IsMatch {
		tally.MatchTimestamp = now
	}

	err = s.Store.CreateItem(ctx, models.MatchesTable, tally, "groupId")
	if err == nil {
		return &tally, tally.IsMatch, nil
	}
	if !errors.Is(err, ErrConditionFailed) {
		return nil, false, fmt.Errorf("failed to create tally for group %s venue %s: %w", groupID, locationID, err)
	}

	// Tally exists: add the liker and bump the count in one atomic update,
	// guarded against the user already being in likedBy.
	key := map[string]types.AttributeValue{
		"groupId":    &types.AttributeValueMemberS{Value: groupID},
		"locationId": &types.AttributeValueMemberS{Value: locationID},
	}
	attrs, err := s.Store.UpdateItemWithCondition(ctx, models.MatchesTable,
		"ADD likedBy :member, matchCount :one",
		"NOT contains(likedBy, :memberStr)",
		key,
		map[string]types.AttributeValue{
			":member":    &types.AttributeValueMemberSS{Value: []string{userID}},
			":one":       &types.AttributeValueMemberN{Value: "1"},
			":memberStr": &types.AttributeValueMemberS{Value: userID},
		}, nil)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// Duplicate like: absorb without side effects.
			existing, err := s.GetMatch(ctx, groupID, locationID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to record like for group %s venue %s: %w", groupID, locationID, err)
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(attrs, &updated); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal tally for group %s venue %s: %w", groupID, locationID, err)
	}
	if updated.IsMatch || updated.MatchCount < updated.MatchThreshold {
		return &updated, false, nil
	}

	// Threshold crossed. The transition is conditional on isMatch still
	// being false so only one of any concurrent crossers wins; the losers
	// just reread the confirmed tally.
	matchedAt := time.Now().UTC().Format(time.RFC3339)
	attrs, err = s.Store.UpdateItemWithCondition(ctx, models.MatchesTable,
		"SET isMatch = :yes, matchTimestamp = :ts",
		"isMatch = :no",
		key,
		map[string]types.AttributeValue{
			":yes": &types.AttributeValueMemberBOOL{Value: true},
			":no":  &types.AttributeValueMemberBOOL{Value: false},
			":ts":  &types.AttributeValueMemberS{Value: matchedAt},
		}, nil)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			existing, err := s.GetMatch(ctx, groupID, locationID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to confirm match for group %s venue %s: %w", groupID, locationID, err)
	}

	var confirmed models.Match
	if err := attributevalue.UnmarshalMap(attrs, &confirmed); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal confirmed match for group %s venue %s: %w", groupID, locationID, err)
	}
	return &confirmed, true, nil
}

// GetMatch returns the tally for one (group, venue) pair, matched or not.
func (s *MatchService) GetMatch(ctx context.Context, groupID, locationID string) (*models.Match, error) {
	item, err := s.Store.GetItem(ctx, models.MatchesTable, map[string]types.AttributeValue{
		"groupId":    &types.AttributeValueMemberS{Value: groupID},
		"locationId": &types.AttributeValueMemberS{Value: locationID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperrors.Newf(apperrors.NotFound, "no tally for group %s venue %s", groupID, locationID)
		}
		return nil, fmt.Errorf("failed to load tally for group %s venue %s: %w", groupID, locationID, err)
	}
	var tally models.Match
	if err := attributevalue.UnmarshalMap(item, &tally); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tally for group %s venue %s: %w", groupID, locationID, err)
	}
	return &tally, nil
}

// GetMatches returns every confirmed match for the group, newest first.
func (s *MatchService) GetMatches(ctx context.Context, groupID string) ([]models.Match, error) {
	if groupID == "" {
		return nil, apperrors.New(apperrors.Validation, "groupId is required")
	}

	items, err := s.Store.QueryItems(ctx, models.MatchesTable, "groupId = :g",
		map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: groupID},
		}, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for group %s: %w", groupID, err)
	}

	var tallies []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &tallies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matches for group %s: %w", groupID, err)
	}

	matches := make([]models.Match, 0, len(tallies))
	for _, t := range tallies {
		if t.IsMatch {
			matches = append(matches, t)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchTimestamp > matches[j].MatchTimestamp })
	return matches, nil
}

// currentThreshold computes ceil(n/2) of the group's member count at call
// time. The result is frozen onto the tally and never recomputed.
func (s *MatchService) currentThreshold(ctx context.Context, groupID string) (int, error) {
	item, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return 0, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return 0, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	var group models.Group
	if err := attributevalue.UnmarshalMap(item, &group); err != nil {
		return 0, fmt.Errorf("failed to unmarshal group %s: %w", groupID, err)
	}

	threshold := (len(group.Members) + 1) / 2
	if threshold < 1 {
		threshold = 1
	}
	return threshold, nil
}
