package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SufiyaaanShaikh/ExploreMates-Backend/models"
)

type fakeSocialStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeSocialStore(users ...*models.User) *fakeSocialStore {
	store := &fakeSocialStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return store
}

func (f *fakeSocialStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		copied.Followers = append([]primitive.ObjectID{}, u.Followers...)
		copied.Following = append([]primitive.ObjectID{}, u.Following...)
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeSocialStore) SetFollowing(_ context.Context, id primitive.ObjectID, following []primitive.ObjectID) error {
	f.users[id].Following = following
	return nil
}

func (f *fakeSocialStore) SetFollowers(_ context.Context, id primitive.ObjectID, followers []primitive.ObjectID) error {
	f.users[id].Followers = followers
	return nil
}

func newSocialFixture() (alice, bob *models.User, store *fakeSocialStore, svc *SocialService) {
	alice = &models.User{ID: primitive.NewObjectID(), Name: "Alice", Password: "hash"}
	bob = &models.User{ID: primitive.NewObjectID(), Name: "Bob", Password: "hash"}
	store = newFakeSocialStore(alice, bob)
	svc = NewSocialService(store)
	return
}

func TestToggleFollowFollowsThenUnfollows(t *testing.T) {
	alice, bob, store, svc := newSocialFixture()

	result, err := svc.ToggleFollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowActionFollowed, result.Action)
	assert.Empty(t, result.User.Password)

	assert.Equal(t, []primitive.ObjectID{bob.ID}, store.users[alice.ID].Following)
	assert.Equal(t, []primitive.ObjectID{alice.ID}, store.users[bob.ID].Followers)

	result, err = svc.ToggleFollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowActionUnfollowed, result.Action)

	assert.Empty(t, store.users[alice.ID].Following)
	assert.Empty(t, store.users[bob.ID].Followers)
}

func TestToggleFollowBothSidesStayConsistent(t *testing.T) {
	alice, bob, store, svc := newSocialFixture()
	carol := &models.User{ID: primitive.NewObjectID(), Name: "Carol"}
	store.users[carol.ID] = carol

	_, err := svc.ToggleFollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(context.Background(), carol.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)

	// Unfollow one edge, the other edges are untouched
	_, err = svc.ToggleFollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, []primitive.ObjectID{carol.ID}, store.users[alice.ID].Following)
	assert.Equal(t, []primitive.ObjectID{carol.ID}, store.users[bob.ID].Followers)
	assert.Equal(t, []primitive.ObjectID{alice.ID}, store.users[carol.ID].Followers)
	assert.Equal(t, []primitive.ObjectID{bob.ID}, store.users[carol.ID].Following)
}

func TestToggleFollowSelf(t *testing.T) {
	alice, _, _, svc := newSocialFixture()

	_, err := svc.ToggleFollow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestToggleFollowMissingTarget(t *testing.T) {
	alice, _, _, svc := newSocialFixture()

	_, err := svc.ToggleFollow(context.Background(), alice.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
