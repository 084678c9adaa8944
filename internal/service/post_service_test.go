package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)

	_, err := env.filters.Add(ctx, "scoundrel")
	require.NoError(t, err)

	_, err = env.posts.Create(ctx, alice, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = env.posts.Create(ctx, alice, "that Scoundrel again")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "scoundrel")

	post, err := env.posts.Create(ctx, alice, "feeling hopeful today")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.NotNil(t, post.SentHugs)
}

func TestHugPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "rough week")

	hugged, err := env.posts.SendHug(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, hugged.GivenHugs)
	assert.True(t, hugged.HuggedBy(bob.ID))

	// Hug counters move on both users.
	giver, err := env.users.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, giver.GivenHugs)

	author, err := env.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, author.ReceivedHugs)

	// A second hug from the same user is refused and changes nothing.
	_, err = env.posts.SendHug(ctx, bob, post.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))

	reloaded, err := env.postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.GivenHugs)
	assert.Len(t, reloaded.SentHugs, 1)
}

func TestHugKeepsCounterAndListInStep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	post := env.createPost(t, alice, "rough week")

	givers := []*model.User{
		env.createUser(t, "bob", model.RoleUser),
		env.createUser(t, "carol", model.RoleUser),
		env.createUser(t, "dave", model.RoleUser),
		env.createUser(t, "erin", model.RoleUser),
	}
	for _, giver := range givers {
		_, err := env.posts.SendHug(ctx, giver, post.ID)
		require.NoError(t, err)
	}

	// No append may be lost: the counter always equals the number of
	// distinct huggers on the list.
	reloaded, err := env.postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, len(givers), reloaded.GivenHugs)
	require.Len(t, reloaded.SentHugs, len(givers))
	for _, giver := range givers {
		assert.True(t, reloaded.HuggedBy(giver.ID))
	}

	author, err := env.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, len(givers), author.ReceivedHugs)
}

func TestHugNotifiesAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "rough week")

	_, err := env.posts.SendHug(ctx, bob, post.ID)
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, env.db.Where("for_id = ?", alice.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeHug, notifications[0].Type)

	// Hugging your own post doesn't notify you.
	own := env.createPost(t, bob, "self care")
	_, err = env.posts.SendHug(ctx, bob, own.ID)
	require.NoError(t, err)

	require.NoError(t, env.db.Where("for_id = ?", bob.ID).Find(&notifications).Error)
	assert.Empty(t, notifications)
}

func TestUpdatePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	mod := env.createUser(t, "maude", model.RoleModerator)
	post := env.createPost(t, alice, "original text")

	// A plain user cannot edit someone else's post.
	_, err := env.posts.Update(ctx, bob, post.ID, "defaced")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	updated, err := env.posts.Update(ctx, alice, post.ID, "revised text")
	require.NoError(t, err)
	assert.Equal(t, "revised text", updated.Text)

	// Moderators can edit anyone's.
	updated, err = env.posts.Update(ctx, mod, post.ID, "tidied up")
	require.NoError(t, err)
	assert.Equal(t, "tidied up", updated.Text)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "short lived")

	err := env.posts.Delete(ctx, bob, post.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	require.NoError(t, env.posts.Delete(ctx, alice, post.ID))

	err = env.posts.Delete(ctx, alice, post.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestDeleteAllByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	mod := env.createUser(t, "maude", model.RoleModerator)

	env.createPost(t, alice, "one")
	env.createPost(t, alice, "two")

	deleted, err := env.posts.DeleteAllByUser(ctx, mod, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = env.posts.DeleteAllByUser(ctx, mod, alice.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestHomeLists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)

	popular := env.createPost(t, alice, "popular post")
	env.createPost(t, alice, "lonely post")
	_, err := env.posts.SendHug(ctx, bob, popular.ID)
	require.NoError(t, err)

	recent, suggested, err := env.posts.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	require.NotEmpty(t, suggested)
	assert.Equal(t, "lonely post", suggested[0].Text)
}
