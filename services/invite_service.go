package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InviteService issues and resolves short-lived group join codes.
type InviteService struct {
	Store DocumentStore
}

// Issue generates a fresh invite code for the group, valid for 24 hours.
// The new code is written to the code table and denormalized onto the
// group in one transaction, which implicitly supersedes whatever code the
// group had before.
func (s *InviteService) Issue(ctx context.Context, groupID string) (*models.InviteCode, error) {
	if groupID == "" {
		return nil, apperrors.New(apperrors.Validation, "groupId is required")
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	now := time.Now().UTC()
	invite := models.InviteCode{
		Code:      code,
		GroupID:   groupID,
		IssuedAt:  now.Format(time.RFC3339),
		ExpiresAt: now.Add(models.InviteCodeTTL).Format(time.RFC3339),
	}

	inviteItem, err := attributevalue.MarshalMap(invite)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invite: %w", err)
	}

	err = s.Store.TransactWriteItems(ctx, []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName: aws.String(models.InviteCodesTable),
				Item:      inviteItem,
			},
		},
		{
			Update: &types.Update{
				TableName: aws.String(models.GroupsTable),
				Key: map[string]types.AttributeValue{
					"groupId": &types.AttributeValueMemberS{Value: groupID},
				},
				UpdateExpression:    aws.String("SET inviteCode = :code, inviteExpiresAt = :exp"),
				ConditionExpression: aws.String("attribute_exists(groupId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":code": &types.AttributeValueMemberS{Value: invite.Code},
					":exp":  &types.AttributeValueMemberS{Value: invite.ExpiresAt},
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, apperrors.Newf(apperrors.NotFound, "group %s not found", groupID)
		}
		return nil, fmt.Errorf("failed to issue invite for group %s: %w", groupID, err)
	}

	return &invite, nil
}

// Resolve maps a code to its owning group. A code is dead once it expires,
// once its group is gone, or once the group has issued a newer code.
func (s *InviteService) Resolve(ctx context.Context, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", apperrors.New(apperrors.Validation, "invite code is required")
	}

	item, err := s.Store.GetItem(ctx, models.InviteCodesTable, map[string]types.AttributeValue{
		"code": &types.AttributeValueMemberS{Value: code},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return "", apperrors.New(apperrors.NotFound, "invite code not found")
		}
		return "", fmt.Errorf("failed to look up invite code: %w", err)
	}

	var invite models.InviteCode
	if err := attributevalue.UnmarshalMap(item, &invite); err != nil {
		return "", fmt.Errorf("failed to unmarshal invite: %w", err)
	}

	expiresAt, err := time.Parse(time.RFC3339, invite.ExpiresAt)
	if err != nil || time.Now().UTC().After(expiresAt) {
		return "", apperrors.New(apperrors.Expired, "invite code has expired")
	}

	groupItem, err := s.Store.GetItem(ctx, models.GroupsTable, map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: invite.GroupID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return "", apperrors.New(apperrors.NotFound, "invite code not found")
		}
		return "", fmt.Errorf("failed to load group for invite: %w", err)
	}

	var group models.Group
	if err := attributevalue.UnmarshalMap(groupItem, &group); err != nil {
		return "", fmt.Errorf("failed to unmarshal group: %w", err)
	}
	if group.InviteCode != code {
		// Superseded by a newer code for the same group.
		return "", apperrors.New(apperrors.NotFound, "invite code not found")
	}

	return invite.GroupID, nil
}

// newInviteCode draws InviteCodeLength symbols from the 32-symbol invite
// alphabet. 32 divides 256, so the byte modulo is unbiased.
func newInviteCode() (string, error) {
	buf := make([]byte, models.InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, models.InviteCodeLength)
	for i, b := range buf {
		out[i] = models.InviteCodeAlphabet[int(b)%len(models.InviteCodeAlphabet)]
	}
	return string(out), nil
}
