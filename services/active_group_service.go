package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ActiveGroupService tracks which of a user's groups are opted in for
// discovery. Only active groups take part in filter aggregation and swipe
// fan-out.
type ActiveGroupService struct {
	Store DocumentStore
}

// Toggle flips the active state of a group for the user and returns the
// resulting state. The user must be a member of the group.
func (s *ActiveGroupService) Toggle(ctx context.Context, userID, groupID string) (bool, error) {
	if userID == "" || groupID == "" {
		return false, apperrors.New(apperrors.Validation, "userId and groupId are required")
	}

	groupItem, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return false, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return false, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	var group models.Group
	if err := attributevalue.UnmarshalMap(groupItem, &group); err != nil {
		return false, fmt.Errorf("failed to unmarshal group %s: %w", groupID, err)
	}
	if !group.HasMember(userID) {
		return false, apperrors.Newf(apperrors.Authorization, "user %s is not a member of group %s", userID, groupID)
	}

	profile, err := getUserProfile(ctx, s.Store, userID)
	if err != nil {
		return false, err
	}

	expression := "ADD activeGroupIds :g"
	newState := true
	if containsString(profile.ActiveGroupIDs, groupID) {
		expression = "DELETE activeGroupIds :g"
		newState = false
	}

	_, err = s.Store.UpdateItem(ctx, models.UserProfilesTable, expression,
		map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberSS{Value: []string{groupID}},
		}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to toggle active group %s for user %s: %w", groupID, userID, err)
	}
	return newState, nil
}

// ListActive returns the user's active groups, ordered by name. Stale
// entries pointing at deleted groups are pruned from the set as they are
// encountered.
func (s *ActiveGroupService) ListActive(ctx context.Context, userID string) ([]models.Group, error) {
	profile, err := getUserProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(profile.ActiveGroupIDs))
	for _, groupID := range profile.ActiveGroupIDs {
		item, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
			"groupId": &types.AttributeValueMemberS{Value: groupID},
		})
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				s.pruneActive(ctx, userID, groupID)
				continue
			}
			return nil, fmt.Errorf("failed to load active group %s: %w", groupID, err)
		}
		var group models.Group
		if err := attributevalue.UnmarshalMap(item, &group); err != nil {
			return nil, fmt.Errorf("failed to unmarshal group %s: %w", groupID, err)
		}
		groups = append(groups, group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// pruneActive drops a stale group id from the user's active set. Best
// effort; the next listing prunes again if this write is lost.
func (s *ActiveGroupService) pruneActive(ctx context.Context, userID, groupID string) {
	_, _ = s.Store.UpdateItem(ctx, models.UserProfilesTable, "DELETE activeGroupIds :g",
		map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberSS{Value: []string{groupID}},
		}, nil)
}

// getUserProfile loads a user profile, treating an absent record as an
// empty profile: profiles are created lazily by membership and swipe
// writes.
func getUserProfile(ctx context.Context, store DocumentStore, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.Validation, "userId is required")
	}
	item, err := store.GetItem(ctx, models.UserProfilesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return &models.UserProfile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to load profile for user %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
