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

func TestNotificationWatermark(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)

	require.NoError(t, env.notifications.Notify(ctx, alice.ID, bob.ID, model.NotificationTypeHug, "bob sent you a hug"))

	// A silent refresh returns the notification without consuming it.
	got, err := env.notifications.GetNotifications(ctx, alice, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob sent you a hug", got[0].Text)

	got, err = env.notifications.GetNotifications(ctx, alice, false)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// The watermark advanced, so the next poll comes back empty.
	alice, err = env.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, alice.LastRead)

	got, err = env.notifications.GetNotifications(ctx, alice, false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)

	endpoint := "https://push.example.com/send/abc"
	data := []byte(`{"endpoint":"https://push.example.com/send/abc","keys":{"p256dh":"k","auth":"a"}}`)

	sub, err := env.notifications.Subscribe(ctx, alice.ID, endpoint, data)
	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", sub.ID.String())

	_, err = env.notifications.Subscribe(ctx, alice.ID, endpoint, []byte("not json"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	// Only the owner may rotate a subscription.
	_, err = env.notifications.UpdateSubscription(ctx, bob.ID, sub.ID, endpoint, data)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))

	updated, err := env.notifications.UpdateSubscription(ctx, alice.ID, sub.ID, "https://push.example.com/send/def", data)
	require.NoError(t, err)
	assert.Equal(t, "https://push.example.com/send/def", updated.Endpoint)
}
