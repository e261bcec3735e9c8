package models

// Filter is a small set of venue-category tags scoped to a user or a group.
// The [MinFilterCategories, MaxFilterCategories] size rule is a write-time
// contract of the filter editor; readers never re-validate stored filters.
type Filter struct {
	FilterID   string   `dynamodbav:"filterId" json:"filterId"`
	OwnerType  string   `dynamodbav:"ownerType" json:"ownerType"` // "user" or "group"
	OwnerID    string   `dynamodbav:"ownerId" json:"ownerId"`
	Categories []string `dynamodbav:"categories,stringset" json:"categories"`
	UpdatedAt  string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

const (
	FilterOwnerUser  = "user"
	FilterOwnerGroup = "group"

	MinFilterCategories = 3
	MaxFilterCategories = 5
)

// DefaultCategories is the discovery fallback when a user has no active
// groups and no personal filter.
var DefaultCategories = []string{"bar", "restaurant", "cafe", "night_club"}

// FiltersTable is the DynamoDB table name for filters
const FiltersTable = "Filters"
