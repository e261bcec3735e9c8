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
	"github.com/Kiransoodyall03/nightlife-app-sub000/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// GroupService owns the group lifecycle: create, join by code, leave, and
// owner-initiated delete, plus the membership invariant (the owner is
// always a member).
type GroupService struct {
	Store   DocumentStore
	Invites *InviteService
}

// CreateGroup allocates a group with the creator as sole member and owner,
// an optional group filter, and a first invite code. Group, profile
// membership, invite code and filter land in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID, name string, categories []string, pictureRef string) (*models.Group, error) {
	if ownerID == "" {
		return nil, apperrors.New(apperrors.Validation, "ownerId is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.Validation, "group name cannot be empty")
	}

	now := time.Now().UTC()
	code, err := newInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	group := models.Group{
		GroupID:         uuid.NewString(),
		Name:            name,
		OwnerID:         ownerID,
		Members:         []string{ownerID},
		PictureRef:      pictureRef,
		InviteCode:      code,
		InviteExpiresAt: now.Add(models.InviteCodeTTL).Format(time.RFC3339),
		CreatedAt:       now.Format(time.RFC3339),
	}

	var filter *models.Filter
	if len(categories) > 0 {
		normalized, err := normalizeCategories(categories)
		if err != nil {
			return nil, err
		}
		filter = &models.Filter{
			FilterID:   uuid.NewString(),
			OwnerType:  models.FilterOwnerGroup,
			OwnerID:    group.GroupID,
			Categories: normalized,
			UpdatedAt:  now.Format(time.RFC3339),
		}
		group.FilterID = filter.FilterID
	}

	groupItem, err := attributevalue.MarshalMap(group)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal group: %w", err)
	}
	inviteItem, err := attributevalue.MarshalMap(models.InviteCode{
		Code:      code,
		GroupID:   group.GroupID,
		IssuedAt:  now.Format(time.RFC3339),
		ExpiresAt: group.InviteExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invite: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.GroupsTable),
				Item:                groupItem,
				ConditionExpression: aws.String("attribute_not_exists(groupId)"),
			},
		},
		{
			Put: &types.Put{
				TableName: aws.String(models.InviteCodesTable),
				Item:      inviteItem,
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(models.UserProfilesTable),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: ownerID},
				},
				UpdateExpression: aws.String("ADD groupIds :g"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":g": &types.AttributeValueMemberSS{Value: []string{group.GroupID}},
				},
			},
		},
	}
	if filter != nil {
		filterItem, err := attributevalue.MarshalMap(*filter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal filter: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: aws.String(models.FiltersTable),
				Item:      filterItem,
			},
		})
	}

	if err := s.Store.TransactWriteItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &group, nil
}

// JoinGroupByCode resolves an invite code and adds the user to the group.
// Joining a group the user already belongs to succeeds without a duplicate
// insert.
func (s *GroupService) JoinGroupByCode(ctx context.Context, userID, code string) (*models.Group, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.Validation, "userId is required")
	}

	groupID, err := s.Invites.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return group, nil
	}

	err = s.Store.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName: aws.String(models.GroupsTable),
				Key: map[string]types.AttributeValue{
					"groupId": &types.AttributeValueMemberS{Value: groupID},
				},
				UpdateExpression:    aws.String("ADD members :u"),
				ConditionExpression: aws.String("attribute_exists(groupId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":u": &types.AttributeValueMemberSS{Value: []string{userID}},
				},
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(models.UserProfilesTable),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: userID},
				},
				UpdateExpression: aws.String("ADD groupIds :g"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":g": &types.AttributeValueMemberSS{Value: []string{groupID}},
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return nil, fmt.Errorf("failed to join group %s: %w", groupID, err)
	}

	group.Members = append(group.Members, userID)
	return group, nil
}

// LeaveGroup removes the user from the group. The last member leaving
// destroys the group with its full cascade; an owner leaving a group that
// still has members hands ownership to the lexicographically first
// remaining member, keeping the owner-is-a-member invariant intact.
func (s *GroupService) LeaveGroup(ctx context.Context, userID, groupID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return apperrors.Newf(apperrors.Conflict, "user %s is not a member of group %s", userID, groupID)
	}

	if len(group.Members) == 1 {
		return s.destroyGroup(ctx, group)
	}

	groupUpdate := &types.Update{
		TableName: aws.String(models.GroupsTable),
		Key: map[string]types.AttributeValue{
			"groupId": &types.AttributeValueMemberS{Value: groupID},
		},
		UpdateExpression:    aws.String("DELETE members :u"),
		ConditionExpression: aws.String("attribute_exists(groupId)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberSS{Value: []string{userID}},
		},
	}
	if userID == group.OwnerID {
		newOwner := successorOwner(group.Members, userID)
		groupUpdate.UpdateExpression = aws.String("SET ownerId = :newOwner DELETE members :u")
		groupUpdate.ExpressionAttributeValues[":newOwner"] = &types.AttributeValueMemberS{Value: newOwner}
	}

	err = s.Store.TransactWriteItems(ctx, []types.TransactWriteItem{
		{Update: groupUpdate},
		{
			Update: &types.Update{
				TableName: aws.String(models.UserProfilesTable),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: userID},
				},
				UpdateExpression: aws.String("DELETE groupIds :g, activeGroupIds :g"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":g": &types.AttributeValueMemberSS{Value: []string{groupID}},
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return fmt.Errorf("failed to leave group %s: %w", groupID, err)
	}
	return nil
}

// DeleteGroup destroys a group and everything scoped to it. Owner only.
func (s *GroupService) DeleteGroup(ctx context.Context, requesterID, groupID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if requesterID != group.OwnerID {
		return apperrors.New(apperrors.Authorization, "only the group owner can delete the group")
	}
	return s.destroyGroup(ctx, group)
}

// GetGroup loads a single group.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, apperrors.New(apperrors.Validation, "groupId is required")
	}
	item, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return nil, fmt.Errorf("failed to load group %s: %w", groupID, err)
	}

	var group models.Group
	if err := attributevalue.UnmarshalMap(item, &group); err != nil {
		return nil, fmt.Errorf("failed to unmarshal group %s: %w", groupID, err)
	}
	return &group, nil
}

// ListGroups returns every group the user is a member of.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	profile, err := getUserProfile(ctx, s.Store, userID)
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(profile.GroupIDs))
	for _, groupID := range profile.GroupIDs {
		group, err := s.GetGroup(ctx, groupID)
		if err != nil {
			if apperrors.IsKind(err, apperrors.NotFound) {
				continue // stale membership entry, group already gone
			}
			return nil, err
		}
		groups = append(groups, *group)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// destroyGroup deletes the group record, its filter, every member's
// membership entries, and all group-scoped swipe fan-out and match records.
// The group-scoped batch deletes run after the transaction and are
// retry-safe: deletes of already-deleted keys are no-ops.
func (s *GroupService) destroyGroup(ctx context.Context, group *models.Group) error {
	items := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName: aws.String(models.GroupsTable),
				Key: map[string]types.AttributeValue{
					"groupId": &types.AttributeValueMemberS{Value: group.GroupID},
				},
			},
		},
	}
	if group.FilterID != "" {
		items = append(items, types.TransactWriteItem{
			Delete: &types.Delete{
				TableName: aws.String(models.FiltersTable),
				Key: map[string]types.AttributeValue{
					"filterId": &types.AttributeValueMemberS{Value: group.FilterID},
				},
			},
		})
	}
	for _, member := range group.Members {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(models.UserProfilesTable),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: member},
				},
				UpdateExpression: aws.String("DELETE groupIds :g, activeGroupIds :g"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":g": &types.AttributeValueMemberSS{Value: []string{group.GroupID}},
				},
			},
		})
	}

	if err := s.Store.TransactWriteItems(ctx, items); err != nil {
		return fmt.Errorf("failed to delete group %s: %w", group.GroupID, err)
	}

	if err := s.deleteGroupScoped(ctx, models.MatchesTable, "locationId", group.GroupID); err != nil {
		return err
	}
	if err := s.deleteGroupScoped(ctx, models.GroupSwipesTable, "swipeKey", group.GroupID); err != nil {
		return err
	}

	// Drop the invite code unless a colliding issue for another group has
	// already overwritten it.
	if group.InviteCode != "" {
		codeKey := map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: group.InviteCode},
		}
		item, err := s.Store.GetItem(ctx, models.InviteCodesTable, codeKey)
		if err == nil {
			var invite models.InviteCode
			if err := attributevalue.UnmarshalMap(item, &invite); err == nil && invite.GroupID == group.GroupID {
				if err := s.Store.DeleteItem(ctx, models.InviteCodesTable, codeKey); err != nil {
					return fmt.Errorf("failed to delete invite code for group %s: %w", group.GroupID, err)
				}
			}
		} else if !errors.Is(err, ErrItemNotFound) {
			return fmt.Errorf("failed to look up invite code for group %s: %w", group.GroupID, err)
		}
	}

	return nil
}

// deleteGroupScoped removes every record in a group-partitioned table for
// the given group.
func (s *GroupService) deleteGroupScoped(ctx context.Context, tableName, sortKeyAttr, groupID string) error {
	items, err := s.Store.QueryItems(ctx, tableName, "groupId = :g", map[string]types.AttributeValue{
		":g": &types.AttributeValueMemberS{Value: groupID},
	}, nil, 0)
	if err != nil {
		return fmt.Errorf("failed to query %s for group %s: %w", tableName, groupID, err)
	}
	if len(items) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"groupId":   &types.AttributeValueMemberS{Value: groupID},
					sortKeyAttr: &types.AttributeValueMemberS{Value: utils.ExtractString(item, sortKeyAttr)},
				},
			},
		})
	}
	if err := s.Store.BatchWriteItems(ctx, tableName, requests); err != nil {
		return fmt.Errorf("failed to delete %s records for group %s: %w", tableName, groupID, err)
	}
	return nil
}

// successorOwner picks the replacement owner when the current owner leaves:
// the lexicographically first remaining member, so concurrent observers
// agree on the outcome.
func successorOwner(members []string, leaving string) string {
	successor := ""
	for _, m := range members {
		if m == leaving {
			continue
		}
		if successor == "" || m < successor {
			successor = m
		}
	}
	return successor
}
