// internal/app/relationship/service.go

// Package relationship is the friend-request state machine: the only
// writer of request status and of user friend-sets. States per pair are
// none → pending → accepted; there is no rejection or cancellation.
package relationship

import (
	"context"
	"errors"

	requeststore "github.com/dalemusser/streamify/internal/app/store/friendrequests"
	userstore "github.com/dalemusser/streamify/internal/app/store/users"
	"github.com/dalemusser/streamify/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrSelfRequest       = errors.New("you can't send a friend request to yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrAlreadyFriends    = errors.New("you are already friends with this user")
	ErrDuplicateRequest  = errors.New("a friend request already exists between you and this user")
	ErrRequestNotFound   = errors.New("friend request not found")
	ErrNotAuthorized     = errors.New("you are not authorized to accept this friend request")
)

// Service owns all friend-request transitions and reads.
type Service struct {
	users    *userstore.Store
	requests *requeststore.Store
	log      *zap.Logger
}

func New(users *userstore.Store, requests *requeststore.Store, logger *zap.Logger) *Service {
	return &Service{users: users, requests: requests, log: logger}
}

// Propose creates a pending request from sender to recipient.
//
// Precondition order: self-check, recipient existence, already-friends,
// duplicate pair. The duplicate check and the insert are not atomic; the
// unique pair_key index backstops the race, surfacing as
// ErrDuplicateRequest either way.
func (s *Service) Propose(ctx context.Context, senderID, recipientID primitive.ObjectID) (models.FriendRequest, error) {
	if senderID == recipientID {
		return models.FriendRequest{}, ErrSelfRequest
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.FriendRequest{}, ErrRecipientNotFound
		}
		return models.FriendRequest{}, err
	}

	for _, f := range recipient.Friends {
		if f == senderID {
			return models.FriendRequest{}, ErrAlreadyFriends
		}
	}

	exists, err := s.requests.ExistsForPair(ctx, senderID, recipientID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if exists {
		return models.FriendRequest{}, ErrDuplicateRequest
	}

	fr, err := s.requests.Create(ctx, senderID, recipientID)
	if err != nil {
		if errors.Is(err, requeststore.ErrDuplicatePair) {
			return models.FriendRequest{}, ErrDuplicateRequest
		}
		return models.FriendRequest{}, err
	}

	s.log.Info("friend request created",
		zap.String("request_id", fr.ID.Hex()),
		zap.String("sender", senderID.Hex()),
		zap.String("recipient", recipientID.Hex()))
	return fr, nil
}

// Accept flips a request to accepted and grows both friend-sets. Only the
// recipient may accept; the sender cannot self-accept.
//
// The three writes (status, sender's set, recipient's set) carry no
// cross-document atomicity. Both set-adds are idempotent, so if a prior
// attempt died after the status write, retrying the accept completes the
// friend-set updates instead of failing.
func (s *Service) Accept(ctx context.Context, requestID, callerID primitive.ObjectID) error {
	fr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrRequestNotFound
		}
		return err
	}

	if fr.Recipient != callerID {
		return ErrNotAuthorized
	}

	if err := s.requests.MarkAccepted(ctx, requestID); err != nil {
		// Already accepted: fall through and redo the idempotent
		// set-adds, repairing any half-applied prior attempt.
		if !errors.Is(err, requeststore.ErrNotPending) {
			return err
		}
	}

	if err := s.users.AddFriend(ctx, fr.Sender, fr.Recipient); err != nil {
		s.log.Error("accept: sender friend-set update failed after status write",
			zap.String("request_id", requestID.Hex()), zap.Error(err))
		return err
	}
	if err := s.users.AddFriend(ctx, fr.Recipient, fr.Sender); err != nil {
		s.log.Error("accept: recipient friend-set update failed after status write",
			zap.String("request_id", requestID.Hex()), zap.Error(err))
		return err
	}

	s.log.Info("friend request accepted",
		zap.String("request_id", requestID.Hex()),
		zap.String("sender", fr.Sender.Hex()),
		zap.String("recipient", fr.Recipient.Hex()))
	return nil
}

// RequestWithProfile pairs a request with the display projection of the
// counterpart user a listing is interested in.
type RequestWithProfile struct {
	Request models.FriendRequest
	Profile models.Profile
}

// IncomingPending returns pending requests addressed to the user, each
// with the sender's profile resolved.
func (s *Service) IncomingPending(ctx context.Context, userID primitive.ObjectID) ([]RequestWithProfile, error) {
	reqs, err := s.requests.IncomingPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, reqs, func(fr models.FriendRequest) primitive.ObjectID { return fr.Sender })
}

// OutgoingPending returns pending requests the user sent, each with the
// recipient's profile resolved.
func (s *Service) OutgoingPending(ctx context.Context, userID primitive.ObjectID) ([]RequestWithProfile, error) {
	reqs, err := s.requests.OutgoingPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, reqs, func(fr models.FriendRequest) primitive.ObjectID { return fr.Recipient })
}

// AcceptedSent returns requests the user sent that were accepted, each
// with the recipient's profile resolved.
func (s *Service) AcceptedSent(ctx context.Context, userID primitive.ObjectID) ([]RequestWithProfile, error) {
	reqs, err := s.requests.AcceptedSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withProfiles(ctx, reqs, func(fr models.FriendRequest) primitive.ObjectID { return fr.Recipient })
}

func (s *Service) withProfiles(ctx context.Context, reqs []models.FriendRequest, pick func(models.FriendRequest) primitive.ObjectID) ([]RequestWithProfile, error) {
	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, fr := range reqs {
		ids = append(ids, pick(fr))
	}
	profiles, err := s.users.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]RequestWithProfile, 0, len(reqs))
	for _, fr := range reqs {
		out = append(out, RequestWithProfile{Request: fr, Profile: byID[pick(fr)]})
	}
	return out, nil
}
