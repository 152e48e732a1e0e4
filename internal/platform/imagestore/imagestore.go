package imagestore

import (
	"context"
	"fmt"
	"io"

	"counsel_hub/internal/common"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// BlogImageTransformation is applied to every uploaded blog image.
const BlogImageTransformation = "w_1000,c_fill,q_auto,f_auto"

type Asset struct {
	PublicID string
	URL      string
}

type Store interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

type cloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &cloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (*Asset, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         s.folder,
		Transformation: BlogImageTransformation,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload %s: %s", filename, resp.Error.Message)
	}
	return &Asset{PublicID: resp.PublicID, URL: resp.SecureURL}, nil
}

func (s *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, resp.Error.Message)
	}
	return nil
}

var ErrNotConfigured = fmt.Errorf("image storage is not configured: %w", common.ErrServiceUnavailable)

// unconfigured rejects every call; used when Cloudinary credentials are absent.
type unconfigured struct{}

func NewUnconfigured() Store { return unconfigured{} }

func (unconfigured) Upload(context.Context, io.Reader, string) (*Asset, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Destroy(context.Context, string) error {
	return ErrNotConfigured
}
