package models

// Swipe directions
const (
	SwipeDirectionLike    = "like"
	SwipeDirectionDislike = "dislike"
)

// Swipe is a user's single, immutable decision on a venue. Exactly one
// record exists per (userId, locationId); a second create attempt is
// rejected, never overwritten.
type Swipe struct {
	UserID     string `dynamodbav:"userId" json:"userId"`
	LocationID string `dynamodbav:"locationId" json:"locationId"`
	Direction  string `dynamodbav:"direction" json:"direction"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// GroupSwipe is the per-group fan-out of a global Swipe, created once for
// every group that was active for the user at swipe time. Partitioned by
// group so the delete cascade is a single-partition query.
type GroupSwipe struct {
	GroupID    string `dynamodbav:"groupId" json:"groupId"`
	SwipeKey   string `dynamodbav:"swipeKey" json:"swipeKey"` // userId#locationId
	UserID     string `dynamodbav:"userId" json:"userId"`
	LocationID string `dynamodbav:"locationId" json:"locationId"`
	Direction  string `dynamodbav:"direction" json:"direction"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// GroupSwipeKey builds the sort key for a GroupSwipe record.
func GroupSwipeKey(userID, locationID string) string {
	return userID + "#" + locationID
}

// Table names for swipe records
const (
	SwipesTable      = "Swipes"
	GroupSwipesTable = "GroupSwipes"
)
