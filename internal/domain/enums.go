package domain

// Category is the fixed set of listing categories. The same values are used
// for an item's own category and for its desired categories.
type Category string

const (
	CategoryBooks        Category = "books"
	CategoryMusic        Category = "music"
	CategoryMovies       Category = "movies"
	CategoryGames        Category = "games"
	CategoryElectronics  Category = "electronics"
	CategoryClothing     Category = "clothing"
	CategoryShoes        Category = "shoes"
	CategoryAccessories  Category = "accessories"
	CategoryFurniture    Category = "furniture"
	CategoryHomeDecor    Category = "home_decor"
	CategoryKitchen      Category = "kitchen"
	CategorySports       Category = "sports"
	CategoryToys         Category = "toys"
	CategoryCollectibles Category = "collectibles"
	CategoryOther        Category = "other"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	_, ok := categoryGroup[c]
	return ok
}

// Condition is the ordinal wear scale of an item, best first.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionLikeNew Condition = "like_new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

func (c Condition) String() string { return string(c) }

func (c Condition) IsValid() bool {
	return c.Rank() >= 0
}

// Rank returns the position of the condition on the ordinal scale
// (new = 0 … fair = 3), or -1 for unknown values.
func (c Condition) Rank() int {
	switch c {
	case ConditionNew:
		return 0
	case ConditionLikeNew:
		return 1
	case ConditionGood:
		return 2
	case ConditionFair:
		return 3
	}
	return -1
}

// MaxConditionRankDelta is the largest possible distance between two conditions.
const MaxConditionRankDelta = 3

// CycleType is the number of parties in an exchange opportunity.
type CycleType string

const (
	CycleTypeTwoWay   CycleType = "2-way"
	CycleTypeThreeWay CycleType = "3-way"
)

func (t CycleType) String() string { return string(t) }

func (t CycleType) IsValid() bool {
	switch t {
	case CycleTypeTwoWay, CycleTypeThreeWay:
		return true
	}
	return false
}

// Size returns the number of participants implied by the cycle type.
func (t CycleType) Size() int {
	switch t {
	case CycleTypeTwoWay:
		return 2
	case CycleTypeThreeWay:
		return 3
	}
	return 0
}

// CycleTypeForSize maps a participant count to its cycle type.
func CycleTypeForSize(n int) (CycleType, bool) {
	switch n {
	case 2:
		return CycleTypeTwoWay, true
	case 3:
		return CycleTypeThreeWay, true
	}
	return "", false
}

// OpportunityStatus is the lifecycle state of a SwapOpportunity.
type OpportunityStatus string

const (
	OpportunityStatusActive    OpportunityStatus = "active"
	OpportunityStatusDismissed OpportunityStatus = "dismissed"
	OpportunityStatusExpired   OpportunityStatus = "expired"
	OpportunityStatusConverted OpportunityStatus = "converted"
)

func (s OpportunityStatus) String() string { return string(s) }

func (s OpportunityStatus) IsValid() bool {
	switch s {
	case OpportunityStatusActive, OpportunityStatusDismissed,
		OpportunityStatusExpired, OpportunityStatusConverted:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s OpportunityStatus) IsTerminal() bool {
	return s.IsValid() && s != OpportunityStatusActive
}

// CanTransitionTo reports whether s → next is an allowed lifecycle edge.
// Only active opportunities move, and only into a terminal state.
func (s OpportunityStatus) CanTransitionTo(next OpportunityStatus) bool {
	return s == OpportunityStatusActive && next.IsTerminal()
}

// ClosedReason records why an opportunity left the active state.
type ClosedReason string

const (
	ClosedReasonTTL        ClosedReason = "ttl"
	ClosedReasonDegenerate ClosedReason = "degenerate"
	ClosedReasonMatch      ClosedReason = "match"
	ClosedReasonDismissed  ClosedReason = "dismissed"
)

func (r ClosedReason) String() string { return string(r) }

// DismissScope controls who stops seeing an opportunity after a dismissal.
type DismissScope string

const (
	// DismissScopeParticipant hides the opportunity for the dismissing user only.
	// It becomes dismissed once every participant has dismissed it.
	DismissScopeParticipant DismissScope = "participant"
	// DismissScopeAll closes the opportunity for everyone on the first dismissal.
	DismissScopeAll DismissScope = "all"
)

func (s DismissScope) IsValid() bool {
	switch s {
	case DismissScopeParticipant, DismissScopeAll:
		return true
	}
	return false
}

// UserRole represents the authorization level of a user.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	}
	return false
}

func (r UserRole) IsAdmin() bool {
	return r == UserRoleAdmin
}
