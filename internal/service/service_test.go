package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/push"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against an in-memory database,
// with the optional backends (redis, meilisearch, web push) disabled.
type testEnv struct {
	db *gorm.DB

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	messageRepo repository.MessageRepository

	filters       FilterService
	notifications NotificationService
	users         UserService
	search        SearchService
	posts         PostService
	messages      MessageService
	reports       ReportService
}

var testRolePermissions = map[string][]string{
	model.RoleAdmin: {
		model.PermReadUser, model.PermPatchMyUser, model.PermPatchAnyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermPatchAnyPost,
		model.PermDeleteMyPost, model.PermDeleteAnyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport, model.PermReadAdminBoard, model.PermBlockUser,
	},
	model.RoleModerator: {
		model.PermReadUser, model.PermPatchMyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermPatchAnyPost,
		model.PermDeleteMyPost, model.PermDeleteAnyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport, model.PermReadAdminBoard, model.PermBlockUser,
	},
	model.RoleUser: {
		model.PermReadUser, model.PermPatchMyUser,
		model.PermPostPost, model.PermPatchMyPost, model.PermDeleteMyPost,
		model.PermReadMessages, model.PermPostMessage, model.PermDeleteMessages,
		model.PermPostReport,
	},
	model.RoleBlocked: {
		model.PermReadUser,
	},
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.User{},
		&model.Post{},
		&model.Thread{},
		&model.Message{},
		&model.Report{},
		&model.Notification{},
		&model.NotificationSub{},
		&model.Filter{},
	))
	seedTestRoles(t, db)

	env := &testEnv{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		messageRepo: repository.NewMessageRepository(db),
	}

	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	filterRepo := repository.NewFilterRepository(db)

	gateway := push.NewGateway("", "", "")

	env.filters = NewFilterService(filterRepo)
	env.notifications = NewNotificationService(notificationRepo, env.userRepo, nil, gateway)
	env.users = NewUserService(env.userRepo, env.filters, env.notifications)
	env.search = NewSearchService(nil, env.postRepo, env.userRepo)
	env.posts = NewPostService(env.postRepo, env.filters, env.notifications, env.search)
	env.messages = NewMessageService(env.messageRepo, env.userRepo, env.filters, env.notifications)
	env.reports = NewReportService(reportRepo, env.postRepo, env.userRepo)

	return env
}

func seedTestRoles(t *testing.T, db *gorm.DB) {
	t.Helper()

	perms := make(map[string]model.Permission)
	for _, names := range testRolePermissions {
		for _, name := range names {
			if _, ok := perms[name]; ok {
				continue
			}
			perm := model.Permission{Name: name}
			require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&perm).Error)
			perms[name] = perm
		}
	}

	for roleName, names := range testRolePermissions {
		role := model.Role{Name: roleName}
		require.NoError(t, db.Where("name = ?", roleName).FirstOrCreate(&role).Error)

		assigned := make([]model.Permission, 0, len(names))
		for _, name := range names {
			assigned = append(assigned, perms[name])
		}
		require.NoError(t, db.Model(&role).Association("Permissions").Replace(assigned))
	}
}

// createUser inserts a user with the named role and returns it with the
// role's permissions loaded.
func (env *testEnv) createUser(t *testing.T, name, roleName string) *model.User {
	t.Helper()

	role, err := env.userRepo.FindRoleByName(context.Background(), roleName)
	require.NoError(t, err)

	user := &model.User{
		DisplayName: name,
		ExternalID:  "auth0|" + name,
		RoleID:      role.ID,
		LoginCount:  1,
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))

	loaded, err := env.userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	return loaded
}

func (env *testEnv) createPost(t *testing.T, author *model.User, text string) *model.Post {
	t.Helper()

	post, err := env.posts.Create(context.Background(), author, text)
	require.NoError(t, err)
	return post
}
