package models

// Group is a named set of users who swipe venues together. The owner is
// always present in Members; when the owner leaves, ownership transfers to
// the lexicographically smallest remaining member so the invariant holds
// without coordination. InviteCode and InviteExpiresAt mirror the current
// code in the InviteCodes table, and resolving a code checks this mirror so
// a regenerated code supersedes the old one immediately.
type Group struct {
	GroupID         string   `dynamodbav:"groupId" json:"groupId"`
	Name            string   `dynamodbav:"name" json:"name"`
	OwnerID         string   `dynamodbav:"ownerId" json:"ownerId"`
	Members         []string `dynamodbav:"members,stringset" json:"members"`
	PictureRef      string   `dynamodbav:"pictureRef,omitempty" json:"pictureRef,omitempty"`
	FilterID        string   `dynamodbav:"filterId,omitempty" json:"filterId,omitempty"`
	InviteCode      string   `dynamodbav:"inviteCode,omitempty" json:"inviteCode,omitempty"`
	InviteExpiresAt string   `dynamodbav:"inviteExpiresAt,omitempty" json:"inviteExpiresAt,omitempty"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
}

// HasMember reports whether userID is currently a member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// GroupsTable is the DynamoDB table name for groups
const GroupsTable = "Groups"
