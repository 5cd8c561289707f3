package user

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse is the public view of a user
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// EntitlementsResponse is the private entitlement view of a user
type EntitlementsResponse struct {
	AccessType      AccessType  `json:"access_type"`
	IsSubscribed    bool        `json:"is_subscribed"`
	QuizCredits     int         `json:"quiz_credits"`
	HasFreeAccess   bool        `json:"has_free_access"`
	FreeAccessCount int         `json:"free_access_count"`
	PackageIDs      []uuid.UUID `json:"package_ids"`
	Courses         []uuid.UUID `json:"courses"`
}

// SetBannedRequest bans or unbans a user (admin)
type SetBannedRequest struct {
	Banned bool `json:"banned"`
}

// GrantFreeAccessRequest tops up the promotional counter (admin)
type GrantFreeAccessRequest struct {
	Count int `json:"count" validate:"required,gt=0,lte=100"`
}

// ToProfileResponse converts a user to its public view
func ToProfileResponse(u *User) *ProfileResponse {
	return &ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ToEntitlementsResponse converts a user to its entitlement view
func ToEntitlementsResponse(u *User) *EntitlementsResponse {
	return &EntitlementsResponse{
		AccessType:      u.AccessType,
		IsSubscribed:    u.IsSubscribed,
		QuizCredits:     u.QuizCredits,
		HasFreeAccess:   u.HasFreeAccess,
		FreeAccessCount: u.FreeAccessCount,
		PackageIDs:      u.PackageIDs,
		Courses:         u.Courses,
	}
}
