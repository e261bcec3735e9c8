package models

import "time"

// InviteCode is a short-lived join token for a group. The code is the
// partition key, so re-issuing a colliding code overwrites the old record
// and the newest issuer wins the lookup. A group's current code is also
// denormalized onto the group record; a code that no longer matches its
// group's current code is superseded and stops resolving.
type InviteCode struct {
	Code      string `dynamodbav:"code" json:"code"`
	GroupID   string `dynamodbav:"groupId" json:"groupId"`
	IssuedAt  string `dynamodbav:"issuedAt" json:"issuedAt"`
	ExpiresAt string `dynamodbav:"expiresAt" json:"expiresAt"`
}

const (
	// InviteCodeAlphabet is the 32-symbol set codes are drawn from:
	// uppercase letters and digits minus the visually ambiguous 0, 1, O, I.
	InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	InviteCodeLength = 6

	InviteCodeTTL = 24 * time.Hour
)

// InviteCodesTable is the DynamoDB table name for invite codes
const InviteCodesTable = "InviteCodes"
