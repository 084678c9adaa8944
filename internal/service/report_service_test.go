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

func TestCreatePostReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "reported post")

	report, err := env.reports.Create(ctx, bob, model.ReportTypePost, 0, &post.ID, "inappropriate")
	require.NoError(t, err)
	// The reported user is derived from the post, never trusted from the
	// request.
	assert.Equal(t, alice.ID, report.UserID)
	assert.Equal(t, bob.ID, report.ReporterID)

	// An open report surfaces on the post itself.
	flagged, err := env.postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, flagged.OpenReport)
}

func TestCreateReportValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "some post")

	_, err := env.reports.Create(ctx, bob, model.ReportTypePost, 0, nil, "no post named")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	missing := post.ID + 999
	_, err = env.reports.Create(ctx, bob, model.ReportTypePost, 0, &missing, "gone")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))

	_, err = env.reports.Create(ctx, bob, model.ReportTypeUser, alice.ID, &post.ID, "mixed up")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = env.reports.Create(ctx, bob, "Gremlin", alice.ID, nil, "no such type")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	_, err = env.reports.Create(ctx, bob, model.ReportTypeUser, alice.ID, nil, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))
}

func TestCloseReportClearsFlag(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "reported post")

	report, err := env.reports.Create(ctx, bob, model.ReportTypePost, 0, &post.ID, "spam")
	require.NoError(t, err)

	closed := true
	dismissed := true
	updated, err := env.reports.Update(ctx, report.ID, &dismissed, &closed)
	require.NoError(t, err)
	assert.True(t, updated.Closed)
	assert.True(t, updated.Dismissed)

	flagged, err := env.postRepo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, flagged.OpenReport)
}

func TestOpenReportQueues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice", model.RoleUser)
	bob := env.createUser(t, "bob", model.RoleUser)
	post := env.createPost(t, alice, "reported post")

	postReport, err := env.reports.Create(ctx, bob, model.ReportTypePost, 0, &post.ID, "spam")
	require.NoError(t, err)
	_, err = env.reports.Create(ctx, bob, model.ReportTypeUser, alice.ID, nil, "mean")
	require.NoError(t, err)

	posts, err := env.reports.OpenPostReports(ctx, 1)
	require.NoError(t, err)
	require.Len(t, posts.Items, 1)
	assert.Equal(t, postReport.ID, posts.Items[0].ID)

	users, err := env.reports.OpenUserReports(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, users.Items, 1)

	// Closed reports leave the queue.
	closed := true
	_, err = env.reports.Update(ctx, postReport.ID, nil, &closed)
	require.NoError(t, err)

	posts, err = env.reports.OpenPostReports(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, posts.Items)
}
