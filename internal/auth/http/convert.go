package http

import (
	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/pkg/authsdk"
)

func toUser(u domain.User) authsdk.User {
	return authsdk.User{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Phone:               u.Phone,
		Bio:                 u.Bio,
		Position:            u.Position,
		GlobalRole:          string(u.GlobalRole),
		TemporaryAdminUntil: u.TemporaryAdminUntil,
		IsActive:            u.IsActive,
		EmailVerified:       u.EmailVerified,
		MFAEnabled:          u.MFAEnabled(),
		JoinedAt:            u.JoinedAt,
		LastLoginAt:         u.LastLoginAt,
	}
}

func toTokens(p domain.TokenPair) authsdk.TokenPair {
	return authsdk.TokenPair{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		ExpiresAt:        p.ExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

func toHub(h domain.Hub) authsdk.Hub {
	return authsdk.Hub{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

func toMembership(m domain.HubMembership) authsdk.Membership {
	return authsdk.Membership{
		ID:        m.ID,
		UserID:    m.UserID,
		HubID:     m.HubID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
