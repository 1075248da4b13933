package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
)

// SocialStore is the slice of the user store the follow graph needs.
type SocialStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SetFollowing(ctx context.Context, id primitive.ObjectID, following []primitive.ObjectID) error
	SetFollowers(ctx context.Context, id primitive.ObjectID, followers []primitive.ObjectID) error
}

// FollowResult reports which direction a toggle went.
type FollowResult struct {
	Action string       `json:"action"`
	User   *models.User `json:"user"`
}

const (
	FollowActionFollowed   = "followed"
	FollowActionUnfollowed = "unfollowed"
)

// SocialService mutates the symmetric follower/following lists.
type SocialService struct {
	users SocialStore
}

func NewSocialService(users SocialStore) *SocialService {
	return &SocialService{users: users}
}

// ToggleFollow flips the follow edge between actor and target. Both the
// actor's following list and the target's followers list are rewritten so
// the two stay mirror images of each other.
func (s *SocialService) ToggleFollow(ctx context.Context, actorID, targetID primitive.ObjectID) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrSelfFollow
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	following := containsID(actor.Following, targetID)

	var action string
	if following {
		actor.Following = removeID(actor.Following, targetID)
		target.Followers = removeID(target.Followers, actorID)
		action = FollowActionUnfollowed
	} else {
		actor.Following = append(actor.Following, targetID)
		target.Followers = append(target.Followers, actorID)
		action = FollowActionFollowed
	}

	if err := s.users.SetFollowing(ctx, actorID, actor.Following); err != nil {
		return nil, err
	}
	if err := s.users.SetFollowers(ctx, targetID, target.Followers); err != nil {
		return nil, err
	}

	actor.Password = ""
	return &FollowResult{Action: action, User: actor}, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
