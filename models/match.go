package models

// VenueSnapshot is the denormalized venue metadata carried on a like and
// frozen onto the tally for display, so confirmed matches render without a
// round trip to the venue-search proxy.
type VenueSnapshot struct {
	LocationID string  `dynamodbav:"locationId" json:"locationId"`
	Name       string  `dynamodbav:"name" json:"name"`
	Address    string  `dynamodbav:"address,omitempty" json:"address,omitempty"`
	Category   string  `dynamodbav:"category,omitempty" json:"category,omitempty"`
	PhotoURL   string  `dynamodbav:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Rating     float64 `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
}

// Match is the like tally for one (group, venue) pair, created lazily on
// the first like and promoted to a confirmed match when MatchCount reaches
// MatchThreshold. IsMatch is monotonic: once true it never resets, and
// MatchTimestamp is written exactly once, on the like that crossed the
// threshold. MatchThreshold is frozen at tally creation and is not
// recomputed as membership changes afterward.
type Match struct {
	GroupID        string        `dynamodbav:"groupId" json:"groupId"`
	LocationID     string        `dynamodbav:"locationId" json:"locationId"`
	LikedBy        []string      `dynamodbav:"likedBy,stringset" json:"likedBy"`
	MatchCount     int           `dynamodbav:"matchCount" json:"matchCount"`
	MatchThreshold int           `dynamodbav:"matchThreshold" json:"matchThreshold"`
	IsMatch        bool          `dynamodbav:"isMatch" json:"isMatch"`
	MatchTimestamp string        `dynamodbav:"matchTimestamp,omitempty" json:"matchTimestamp,omitempty"`
	Venue          VenueSnapshot `dynamodbav:"venue" json:"venue"`
	CreatedAt      string        `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchesTable is the DynamoDB table name for match tallies
const MatchesTable = "Matches"
