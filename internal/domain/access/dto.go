package access

import (
	"github.com/google/uuid"

	"github.com/quizhub/quizhub-api/internal/domain/user"
)

// DecisionResponse reports a granted access check
type DecisionResponse struct {
	Allowed bool `json:"allowed"`
}

// EntitlementResponse is the post-reconciliation entitlement summary
type EntitlementResponse struct {
	UserID       uuid.UUID       `json:"user_id"`
	IsSubscribed bool            `json:"is_subscribed"`
	AccessType   user.AccessType `json:"access_type"`
	QuizCredits  int             `json:"quiz_credits"`
	PackageIDs   []uuid.UUID     `json:"package_ids"`
	Courses      []uuid.UUID     `json:"courses"`
}

// ToEntitlementResponse converts a reconciled user to the API representation
func ToEntitlementResponse(u *user.User) *EntitlementResponse {
	return &EntitlementResponse{
		UserID:       u.ID,
		IsSubscribed: u.IsSubscribed,
		AccessType:   u.AccessType,
		QuizCredits:  u.QuizCredits,
		PackageIDs:   u.PackageIDs,
		Courses:      u.Courses,
	}
}
