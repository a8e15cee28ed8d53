// internal/app/provision/provision.go

// Package provision owns group creation: the workflow that validates
// membership against the relationship store, mirrors identities into the
// chat provider, creates the remote channel, and commits the local group
// record. It is the only caller of the provider's channel-creation
// operation and the only writer of group documents.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/streamify/internal/app/store/groups"
	userstore "github.com/dalemusser/streamify/internal/app/store/users"
	"github.com/dalemusser/streamify/internal/app/stream"
	"github.com/dalemusser/streamify/internal/app/system/timeouts"
	"github.com/dalemusser/streamify/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChannelKind is the Stream channel type used for group conversations.
const ChannelKind = "messaging"

var (
	ErrInvalidGroupData    = errors.New("invalid group data")
	ErrForbiddenMembership = errors.New("can only add your friends to a group")
	ErrProviderSync        = errors.New("failed to sync members with the chat provider")
	ErrProviderChannel     = errors.New("failed to create the chat channel")
)

// Provisioner runs the group-creation workflow. The provider adapter is
// injected; its lifecycle belongs to the process entry point, not to this
// package.
type Provisioner struct {
	groups   *groupstore.Store
	users    *userstore.Store
	provider stream.ChannelProvider
	log      *zap.Logger
}

func New(groups *groupstore.Store, users *userstore.Store, provider stream.ChannelProvider, logger *zap.Logger) *Provisioner {
	return &Provisioner{groups: groups, users: users, provider: provider, log: logger}
}

// CreateGroup provisions a group conversation for the caller and at least
// two of their friends.
//
// Order within one invocation is load-bearing: validate, write the
// provisional marker, sync identities, create the remote channel, commit.
// A provider failure compensates by deleting the marker, so a failed
// attempt leaves no group record behind; a crash between channel creation
// and commit leaves a provisioning marker for the reconciler to resolve.
func (p *Provisioner) CreateGroup(ctx context.Context, callerID primitive.ObjectID, name string, memberIDs []primitive.ObjectID) (models.Group, error) {
	if name == "" || len(memberIDs) < 2 {
		return models.Group{}, ErrInvalidGroupData
	}
	seen := map[primitive.ObjectID]bool{callerID: true}
	for _, id := range memberIDs {
		if seen[id] {
			return models.Group{}, ErrInvalidGroupData
		}
		seen[id] = true
	}

	// Membership check is symmetric: each named member must hold the
	// caller in their friend-set and vice versa.
	for _, id := range memberIDs {
		ok, err := p.users.AreFriends(ctx, callerID, id)
		if err != nil {
			return models.Group{}, err
		}
		if !ok {
			return models.Group{}, ErrForbiddenMembership
		}
	}

	fullMembers := append([]primitive.ObjectID{callerID}, memberIDs...)

	profiles, err := p.users.Profiles(ctx, fullMembers)
	if err != nil {
		return models.Group{}, err
	}
	if len(profiles) != len(fullMembers) {
		// A member vanished between validation and here.
		return models.Group{}, ErrInvalidGroupData
	}

	channelID := uuid.NewString()

	marker, err := p.groups.InsertProvisioning(ctx, name, fullMembers, callerID, channelID)
	if err != nil {
		return models.Group{}, err
	}

	// Identity sync fans out; order across members is irrelevant but all
	// must succeed before the channel is created.
	eg, egCtx := errgroup.WithContext(ctx)
	for _, prof := range profiles {
		eg.Go(func() error {
			return p.provider.UpsertUser(egCtx, stream.User{
				ID:    prof.ID.Hex(),
				Name:  prof.FullName,
				Image: prof.ProfilePic,
			})
		})
	}
	if err := eg.Wait(); err != nil {
		p.compensate(marker.ID, "", "identity sync failed")
		return models.Group{}, fmt.Errorf("%w: %v", ErrProviderSync, err)
	}

	memberHexes := make([]string, len(fullMembers))
	for i, id := range fullMembers {
		memberHexes[i] = id.Hex()
	}
	remoteID, err := p.provider.CreateChannel(ctx, ChannelKind, channelID, stream.ChannelInput{
		Name:      name,
		Members:   memberHexes,
		CreatedBy: callerID.Hex(),
	})
	if err != nil {
		p.compensate(marker.ID, "", "channel creation failed")
		return models.Group{}, fmt.Errorf("%w: %v", ErrProviderChannel, err)
	}

	if err := p.groups.Commit(ctx, marker.ID, remoteID); err != nil {
		// The remote channel exists but the local commit did not land.
		// Leave the marker for the reconciler rather than guessing.
		p.log.Error("group commit failed; provisioning marker left for reconciler",
			zap.String("group_id", marker.ID.Hex()),
			zap.String("channel_id", remoteID),
			zap.Error(err))
		return models.Group{}, err
	}

	marker.StreamChannelID = remoteID
	marker.Status = models.GroupActive

	p.log.Info("group provisioned",
		zap.String("group_id", marker.ID.Hex()),
		zap.String("channel_id", remoteID),
		zap.String("created_by", callerID.Hex()),
		zap.Int("members", len(fullMembers)))
	return marker, nil
}

// compensate deletes the provisional marker after a failed provider call.
// It runs on a fresh context: the request context may already be dead,
// and a stranded marker would otherwise sit until the reconciler's next
// pass.
func (p *Provisioner) compensate(markerID primitive.ObjectID, channelID, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	if channelID != "" {
		if err := p.provider.DeleteChannel(ctx, ChannelKind, channelID); err != nil {
			p.log.Warn("compensation channel delete failed",
				zap.String("channel_id", channelID), zap.Error(err))
		}
	}
	if _, err := p.groups.Delete(ctx, markerID); err != nil {
		p.log.Warn("compensation marker delete failed; reconciler will retry",
			zap.String("group_id", markerID.Hex()),
			zap.String("reason", reason),
			zap.Error(err))
		return
	}
	p.log.Info("provisioning compensated",
		zap.String("group_id", markerID.Hex()),
		zap.String("reason", reason))
}

// GroupWithMembers is a group plus its members resolved to display
// projections, creator first.
type GroupWithMembers struct {
	models.Group
	MemberProfiles []models.Profile `json:"memberProfiles"`
}

// ListGroupsForUser returns the user's active groups, newest first, with
// member identities resolved for display.
func (p *Provisioner) ListGroupsForUser(ctx context.Context, userID primitive.ObjectID) ([]GroupWithMembers, error) {
	gs, err := p.groups.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]GroupWithMembers, 0, len(gs))
	for _, g := range gs {
		profiles, err := p.users.Profiles(ctx, g.Members)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupWithMembers{Group: g, MemberProfiles: profiles})
	}
	return out, nil
}

// StaleAfter is how old an untouched provisioning marker must be before
// the reconciler treats it as dead. Generous enough that no live request
// (bounded by handler timeouts) can still be working on it.
const DefaultStaleAfter = 10 * time.Minute
