package models

// UserProfile holds the per-user state the matching engine needs: which
// groups the user belongs to and which of those are currently active for
// discovery. Identity, photos and the rest of the profile live with the
// auth collaborator, not here.
type UserProfile struct {
	UserID           string   `dynamodbav:"userId" json:"userId"`
	Name             string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	GroupIDs         []string `dynamodbav:"groupIds,stringset,omitempty" json:"groupIds,omitempty"`
	ActiveGroupIDs   []string `dynamodbav:"activeGroupIds,stringset,omitempty" json:"activeGroupIds,omitempty"`
	PersonalFilterID string   `dynamodbav:"personalFilterId,omitempty" json:"personalFilterId,omitempty"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
