package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// FilterService owns venue-category filters and derives the effective
// search filter for a user: the union of their active groups' filters,
// falling back to the personal filter, falling back to the defaults.
type FilterService struct {
	Store        DocumentStore
	ActiveGroups *ActiveGroupService
}

// EffectiveFilters returns the deduplicated, sorted category set the user
// should search venues with.
func (s *FilterService) EffectiveFilters(ctx context.Context, userID string) ([]string, error) {
	active, err := s.ActiveGroups.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	union := map[string]struct{}{}
	for _, group := range active {
		if group.FilterID == "" {
			continue
		}
		filter, err := s.getFilter(ctx, group.FilterID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.NotFound) {
				continue // dangling filter reference
			}
			return nil, err
		}
		s.repairBacklink(ctx, filter, group.GroupID)
		for _, c := range filter.Categories {
			union[c] = struct{}{}
		}
	}
	if len(union) > 0 {
		return sortedKeys(union), nil
	}

	profile, err := getUserProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}
	if profile.PersonalFilterID != "" {
		filter, err := s.getFilter(ctx, profile.PersonalFilterID)
		if err == nil && len(filter.Categories) > 0 {
			categories := append([]string(nil), filter.Categories...)
			sort.Strings(categories)
			return categories, nil
		}
		if err != nil && !apperrors.IsKind(err, apperrors.NotFound) {
			return nil, err
		}
	}

	return append([]string(nil), models.DefaultCategories...), nil
}

// PutPersonalFilter creates or replaces the user's personal filter.
func (s *FilterService) PutPersonalFilter(ctx context.Context, userID string, categories []string) (*models.Filter, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.Validation, "userId is required")
	}
	normalized, err := normalizeCategories(categories)
	if err != nil {
		return nil, err
	}

	profile, err := getUserProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}
	filterID := profile.PersonalFilterID
	if filterID == "" {
		filterID = uuid.NewString()
	}

	filter := models.Filter{
		FilterID:   filterID,
		OwnerType:  models.FilterOwnerUser,
		OwnerID:    userID,
		Categories: normalized,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutItem(ctx, models.FiltersTable, filter); err != nil {
		return nil, fmt.Errorf("failed to store personal filter for user %s: %w", userID, err)
	}

	if profile.PersonalFilterID != filterID {
		_, err = s.Store.UpdateItem(ctx, models.UserProfilesTable, "SET personalFilterId = :f",
			map[string]types.AttributeValue{
				"userId": &types.AttributeValueMemberS{Value: userID},
			},
			map[string]types.AttributeValue{
				":f": &types.AttributeValueMemberS{Value: filterID},
			}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to link personal filter for user %s: %w", userID, err)
		}
	}
	return &filter, nil
}

// PutGroupFilter creates or replaces a group's filter. Members only.
func (s *FilterService) PutGroupFilter(ctx context.Context, requesterID, groupID string, categories []string) (*models.Filter, error) {
	normalized, err := normalizeCategories(categories)
	if err != nil {
		return nil, err
	}

	groupItem, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}
	var group models.Group
	if err := attributevalue.UnmarshalMap(groupItem, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group %s: %w", groupID, err)
	}
	if !group.HasMember(requesterID) {
		return nil, apperrors.Newf(apperrors.Authorization, "user %s is not a member of group %s", requesterID, groupID)
	}

	filterID := group.FilterID
	if filterID == "" {
		filterID = uuid.NewString()
	}
	filter := models.Filter{
		FilterID:   filterID,
		OwnerType:  models.FilterOwnerGroup,
		OwnerID:    groupID,
		Categories: normalized,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Store.PutItem(ctx, models.FiltersTable, filter); err != nil {
		return nil, fmt.Errorf("failed to store group filter for %s: %w", groupID, err)
	}

	if group.FilterID != filterID {
		_, err = s.Store.UpdateItem(ctx, models.GroupsTable, "SET filterId = :f",
			map[string]types.AttributeValue{
				"groupId": &types.AttributeValueMemberS{Value: groupID},
			},
			map[string]types.AttributeValue{
				":f": &types.AttributeValueMemberS{Value: filterID},
			}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to link filter to group %s: %w", groupID, err)
		}
	}
	return &filter, nil
}

func (s *FilterService) getFilter(ctx context.Context, filterID string) (*models.Filter, error) {
	item, err := s.Store.GetItem(ctx, models.FiltersTable, map[string]types.AttributeValue{
		"filterId": &types.AttributeValueMemberS{Value: filterID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperrors.Newf(apperrors.NotFound, "filter %s not found", filterID)
		}
		return nil, fmt.Errorf("failed to load filter %s: %w", filterID, err)
	}
	var filter models.Filter
	if err := attributevalue.UnmarshalMap(item, &filter); err != nil {
		return nil, fmt.Errorf("failed to unmarshal filter %s: %w", filterID, err)
	}
	return &filter, nil
}

// repairBacklink restores a group filter's owner reference when it has
// drifted. Best effort; aggregation does not depend on it.
func (s *FilterService) repairBacklink(ctx context.Context, filter *models.Filter, groupID string) {
	if filter.OwnerType == models.FilterOwnerGroup && filter.OwnerID == groupID {
		return
	}
	_, _ = s.Store.UpdateItem(ctx, models.FiltersTable, "SET ownerType = :t, ownerId = :o",
		map[string]types.AttributeValue{
			"filterId": &types.AttributeValueMemberS{Value: filter.FilterID},
		},
		map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: models.FilterOwnerGroup},
			":o": &types.AttributeValueMemberS{Value: groupID},
		}, nil)
}

// normalizeCategories trims, lowercases, and deduplicates category tags and
// enforces the write-time size contract.
func normalizeCategories(categories []string) ([]string, error) {
	seen := map[string]struct{}{}
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		seen[c] = struct{}{}
	}
	if len(seen) < models.MinFilterCategories || len(seen) > models.MaxFilterCategories {
		return nil, apperrors.Newf(apperrors.Validation,
			"filter must contain between %d and %d distinct categories",
			models.MinFilterCategories, models.MaxFilterCategories)
	}
	return sortedKeys(seen), nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
