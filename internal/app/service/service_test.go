package service

import (
	"testing"
	"time"

	"counsel_hub/internal/app/task"
	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/testsupport"

	"go.uber.org/zap"
)

const maxUpload = 5 * 1024 * 1024

type fixture struct {
	store  *testsupport.Store
	images *testsupport.ImageStore
	mail   *testsupport.Mailer
	tasks  *task.Runner
	tokens *security.TokenManager

	auth  *AuthService
	blogs *BlogService
	appts *AppointmentService

	admin     *model.Admin
	client    *model.Admin
	counselor *model.Admin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  testsupport.NewStore(),
		images: &testsupport.ImageStore{},
		mail:   &testsupport.Mailer{},
		tasks:  task.NewRunner(zap.NewNop(), time.Second),
		tokens: security.NewTokenManager([]byte("test-secret"), time.Hour),
	}
	f.auth = NewAuthService(f.store.Admins(), f.tokens)
	f.blogs = NewBlogService(f.store.Blogs(), f.images, maxUpload, zap.NewNop())
	f.appts = NewAppointmentService(f.store.Appointments(), f.store.Admins(), f.mail, f.tasks)

	f.admin = f.store.SeedAccount("Admin", "admin@example.com", "123456", model.RoleAdmin)
	f.client = f.store.SeedAccount("Client", "client@example.com", "123456", model.RoleUser)
	f.counselor = f.store.SeedAccount("Dr. Ade", "counselor@example.com", "123456", model.RoleAdmin)
	return f
}

func (f *fixture) adminID() model.Identity  { return model.AdminIdentity{ID: f.admin.ID} }
func (f *fixture) clientID() model.Identity { return model.UserIdentity{ID: f.client.ID} }

func ptr[T any](v T) *T { return &v }
