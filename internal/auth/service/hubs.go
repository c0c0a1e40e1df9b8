package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/idx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

const maxHubNameLength = 120

type HubInput struct {
	Name        string
	Description string
}

// HubService manages hubs and hub memberships. Every mutation goes through
// the Resolver before touching the store.
type HubService struct {
	Store    store.Store
	Resolver *Resolver
	Now      func() time.Time
}

func (s *HubService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ListHubs is public.
func (s *HubService) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	return s.Store.Hubs().ListHubs(ctx)
}

func (s *HubService) CreateHub(ctx context.Context, token string, in HubInput) (domain.Hub, error) {
	caller, err := s.Resolver.Authorize(ctx, token, GlobalAdmin())
	if err != nil {
		return domain.Hub{}, err
	}

	name, err := validHubName(in.Name)
	if err != nil {
		return domain.Hub{}, err
	}

	now := s.now()
	h := domain.Hub{
		ID:          idx.New(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Hubs().CreateHub(ctx, h); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Hub{}, ErrHubNameTaken
		}
		return domain.Hub{}, fmt.Errorf("create hub: %w", err)
	}

	slogx.FromContext(ctx).Info("hub created", slog.String("hub_id", h.ID), slog.String("created_by", caller.User.ID))
	return h, nil
}

// UpdateHub may be called by global admins and leads of the hub.
func (s *HubService) UpdateHub(ctx context.Context, token, hubID string, in HubInput) (domain.Hub, error) {
	caller, err := s.Resolver.Authorize(ctx, token, ManageHub(hubID))
	if err != nil {
		return domain.Hub{}, err
	}

	h, err := s.Store.Hubs().GetHubByID(ctx, hubID)
	if err != nil {
		return domain.Hub{}, mapStoreErr(err, "lookup hub")
	}

	name, err := validHubName(in.Name)
	if err != nil {
		return domain.Hub{}, err
	}
	h.Name = name
	h.Description = strings.TrimSpace(in.Description)
	h.UpdatedAt = s.now()

	if err := s.Store.Hubs().UpdateHub(ctx, h); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Hub{}, ErrHubNameTaken
		}
		return domain.Hub{}, mapStoreErr(err, "update hub")
	}

	slogx.FromContext(ctx).Info("hub updated", slog.String("hub_id", h.ID), slog.String("updated_by", caller.User.ID))
	return h, nil
}

func (s *HubService) DeleteHub(ctx context.Context, token, hubID string) error {
	caller, err := s.Resolver.Authorize(ctx, token, GlobalAdmin())
	if err != nil {
		return err
	}
	if err := s.Store.Hubs().DeleteHub(ctx, hubID); err != nil {
		return mapStoreErr(err, "delete hub")
	}
	slogx.FromContext(ctx).Info("hub deleted", slog.String("hub_id", hubID), slog.String("deleted_by", caller.User.ID))
	return nil
}

// ApplyForMembership files a pending member application for the caller.
func (s *HubService) ApplyForMembership(ctx context.Context, token, hubID string) (domain.HubMembership, error) {
	caller, err := s.Resolver.Authorize(ctx, token, Authenticated())
	if err != nil {
		return domain.HubMembership{}, err
	}

	if _, err := s.Store.Hubs().GetHubByID(ctx, hubID); err != nil {
		return domain.HubMembership{}, mapStoreErr(err, "lookup hub")
	}

	now := s.now()
	m := domain.HubMembership{
		ID:        idx.New(),
		UserID:    caller.User.ID,
		HubID:     hubID,
		Role:      domain.HubRoleMember,
		Status:    domain.MembershipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Memberships().CreateMembership(ctx, m); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.HubMembership{}, ErrAlreadyMember
		}
		return domain.HubMembership{}, fmt.Errorf("create membership: %w", err)
	}
	return m, nil
}

// ReviewMembership approves or rejects an application. The caller must be able
// to manage the membership's hub.
func (s *HubService) ReviewMembership(ctx context.Context, token, membershipID string, approve bool) (domain.HubMembership, error) {
	p, err := s.Resolver.Authorize(ctx, token, Authenticated())
	if err != nil {
		return domain.HubMembership{}, err
	}

	m, err := s.Store.Memberships().GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Do not reveal whether the membership exists.
			return domain.HubMembership{}, ErrInsufficientPermissions
		}
		return domain.HubMembership{}, fmt.Errorf("lookup membership: %w", err)
	}
	if !p.CanManageHub(m.HubID) {
		return domain.HubMembership{}, ErrInsufficientPermissions
	}

	status := domain.MembershipRejected
	if approve {
		status = domain.MembershipApproved
	}
	now := s.now()
	if err := s.Store.Memberships().UpdateMembershipStatus(ctx, m.ID, status, now); err != nil {
		return domain.HubMembership{}, mapStoreErr(err, "update membership")
	}
	m.Status = status
	m.UpdatedAt = now

	slogx.FromContext(ctx).Info("membership reviewed",
		slog.String("membership_id", m.ID),
		slog.String("status", string(status)),
		slog.String("reviewed_by", p.User.ID),
	)
	return m, nil
}

// SetMembershipRole promotes or demotes a member. Only global admins can
// appoint leads.
func (s *HubService) SetMembershipRole(ctx context.Context, token, membershipID string, role domain.HubRole) (domain.HubMembership, error) {
	caller, err := s.Resolver.Authorize(ctx, token, GlobalAdmin())
	if err != nil {
		return domain.HubMembership{}, err
	}
	if role != domain.HubRoleMember && role != domain.HubRoleLead {
		return domain.HubMembership{}, ErrInvalidInput
	}

	m, err := s.Store.Memberships().GetMembershipByID(ctx, membershipID)
	if err != nil {
		return domain.HubMembership{}, mapStoreErr(err, "lookup membership")
	}

	now := s.now()
	if err := s.Store.Memberships().UpdateMembershipRole(ctx, m.ID, role, now); err != nil {
		return domain.HubMembership{}, mapStoreErr(err, "update membership")
	}
	m.Role = role
	m.UpdatedAt = now

	slogx.FromContext(ctx).Info("membership role changed",
		slog.String("membership_id", m.ID),
		slog.String("role", string(role)),
		slog.String("changed_by", caller.User.ID),
	)
	return m, nil
}

func validHubName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxHubNameLength {
		return "", ErrInvalidInput
	}
	return name, nil
}

func mapStoreErr(err error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
