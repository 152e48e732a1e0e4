package testsupport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"counsel_hub/internal/common/security"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/platform/imagestore"
	"counsel_hub/internal/platform/mailer"

	"github.com/google/uuid"
)

var ErrImageHostDown = errors.New("image host unavailable")

// ImageStore records calls and can be told to fail.
type ImageStore struct {
	mu         sync.Mutex
	Uploads    int
	Destroyed  []string
	FailUpload bool
	FailDelete bool
}

func (f *ImageStore) Upload(_ context.Context, file io.Reader, filename string) (*imagestore.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploads++
	if f.FailUpload {
		return nil, ErrImageHostDown
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("blog_images/%s", uuid.NewString())
	return &imagestore.Asset{PublicID: id, URL: "https://img.example.com/" + id + "/" + filename}, nil
}

func (f *ImageStore) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete {
		return ErrImageHostDown
	}
	f.Destroyed = append(f.Destroyed, publicID)
	return nil
}

func (f *ImageStore) UploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Uploads
}

// Mailer records sent messages.
type Mailer struct {
	mu   sync.Mutex
	Sent []mailer.Message
	Fail bool
}

func (m *Mailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return errors.New("smtp unavailable")
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *Mailer) Messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.Sent...)
}

// SeedAccount inserts an account with a real bcrypt hash of password.
func (s *Store) SeedAccount(name, email, password, role string) *model.Admin {
	hash, err := security.HashPassword(password)
	if err != nil {
		panic(err)
	}
	a := &model.Admin{ID: uuid.NewString(), Name: name, Email: email, HashedPassword: hash, Role: role}
	if err := s.Admins().Create(context.Background(), a); err != nil {
		panic(err)
	}
	return a
}
