package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/model"
	"counsel_hub/internal/domain/repository"
	"counsel_hub/internal/platform/imagestore"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type BlogService struct {
	blogRepo  repository.BlogRepository
	images    imagestore.Store
	maxUpload int64
	log       *zap.Logger
}

func NewBlogService(blogRepo repository.BlogRepository, images imagestore.Store, maxUpload int64, log *zap.Logger) *BlogService {
	return &BlogService{blogRepo: blogRepo, images: images, maxUpload: maxUpload, log: log}
}

// BlogInput carries the client-settable fields. Nil means "not provided".
type BlogInput struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	Excerpt     *string   `json:"excerpt"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

// ImageUpload describes a file received from a client.
type ImageUpload struct {
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
}

func (s *BlogService) List(ctx context.Context, opts *query.Options) ([]model.Blog, int, error) {
	return s.blogRepo.List(ctx, opts)
}

func (s *BlogService) Get(ctx context.Context, id string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrValidation) {
			return nil, common.NewError(common.ErrNotFound, "Blog not found with id of %s", id)
		}
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, identity model.Identity, in BlogInput) (*model.Blog, error) {
	if !model.IsAdmin(identity) {
		return nil, common.NewError(common.ErrForbidden, "User role %s is not authorized to access this route", identity.Role())
	}

	blog := &model.Blog{
		ID:       uuid.NewString(),
		AuthorID: identity.AccountID(),
		Tags:     []string{model.DefaultBlogTag},
	}
	if in.Tags != nil {
		if tags := normalizeTags(*in.Tags); len(tags) > 0 {
			blog.Tags = tags
		}
	}
	in.Tags = nil
	applyBlogInput(blog, in)

	if err := validateBlog(blog); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}
	return blog, nil
}

func (s *BlogService) Update(ctx context.Context, identity model.Identity, id string, in BlogInput) (*model.Blog, error) {
	blog, err := s.owned(ctx, identity, id, "update")
	if err != nil {
		return nil, err
	}

	if in.Tags != nil {
		tags := normalizeTags(*in.Tags)
		if len(tags) == 0 {
			return nil, common.NewError(common.ErrValidation, "Please add at least one tag")
		}
		blog.Tags = tags
		in.Tags = nil
	}
	applyBlogInput(blog, in)

	if err := validateBlog(blog); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}
	return blog, nil
}

// Delete removes the blog. A failure to remove its hosted image is logged and
// does not stop the deletion.
func (s *BlogService) Delete(ctx context.Context, identity model.Identity, id string) error {
	blog, err := s.owned(ctx, identity, id, "delete")
	if err != nil {
		return err
	}

	if blog.Image != nil && blog.Image.PublicID != "" {
		if err := s.images.Destroy(ctx, blog.Image.PublicID); err != nil {
			s.log.Warn("failed to delete blog image",
				zap.String("blogId", blog.ID),
				zap.String("publicId", blog.Image.PublicID),
				zap.Error(err))
		}
	}

	if err := s.blogRepo.Delete(ctx, blog.ID); err != nil {
		return fmt.Errorf("failed to delete blog: %w", err)
	}
	return nil
}

// UploadImage stores a new image for the blog. The previous image is only
// removed once the new one is hosted.
func (s *BlogService) UploadImage(ctx context.Context, identity model.Identity, id string, upload *ImageUpload) (*model.Blog, error) {
	blog, err := s.owned(ctx, identity, id, "update")
	if err != nil {
		return nil, err
	}
	if err := s.checkUpload(upload); err != nil {
		return nil, err
	}

	asset, err := s.images.Upload(ctx, upload.File, upload.Filename)
	if err != nil {
		s.log.Error("image upload failed", zap.String("blogId", blog.ID), zap.Error(err))
		if errors.Is(err, common.ErrServiceUnavailable) {
			return nil, common.NewError(common.ErrServiceUnavailable, "Image uploads are not available")
		}
		return nil, common.NewError(common.ErrInternalServer, "Problem with file upload")
	}

	previous := blog.Image
	blog.Image = &model.BlogImage{PublicID: asset.PublicID, URL: asset.URL}
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		if derr := s.images.Destroy(ctx, asset.PublicID); derr != nil {
			s.log.Warn("failed to clean up orphaned image", zap.String("publicId", asset.PublicID), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to save blog image: %w", err)
	}

	if previous != nil && previous.PublicID != "" && previous.PublicID != asset.PublicID {
		if err := s.images.Destroy(ctx, previous.PublicID); err != nil {
			s.log.Warn("failed to delete previous blog image",
				zap.String("blogId", blog.ID),
				zap.String("publicId", previous.PublicID),
				zap.Error(err))
		}
	}
	return blog, nil
}

// MaxUpload is the largest accepted image size in bytes.
func (s *BlogService) MaxUpload() int64 {
	return s.maxUpload
}

func (s *BlogService) checkUpload(upload *ImageUpload) error {
	if upload == nil || upload.File == nil {
		return common.NewError(common.ErrBadRequest, "Please upload a file")
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return common.NewError(common.ErrBadRequest, "Please upload an image file")
	}
	if upload.Size > s.maxUpload {
		return common.NewError(common.ErrBadRequest, "Please upload an image less than %d bytes", s.maxUpload)
	}
	return nil
}

func (s *BlogService) owned(ctx context.Context, identity model.Identity, id, action string) (*model.Blog, error) {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch identity.(type) {
	case model.AdminIdentity:
		return blog, nil
	case model.UserIdentity:
		if blog.AuthorID == identity.AccountID() {
			return blog, nil
		}
	}
	return nil, common.NewError(common.ErrForbidden, "User %s is not authorized to %s this blog", identity.AccountID(), action)
}

func applyBlogInput(blog *model.Blog, in BlogInput) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != blog.Title {
			blog.Slug = slug.Make(title)
		}
		blog.Title = title
	}
	if in.Content != nil {
		blog.Content = *in.Content
	}
	if in.Excerpt != nil {
		blog.Excerpt = strings.TrimSpace(*in.Excerpt)
	}
	if in.Tags != nil {
		blog.Tags = normalizeTags(*in.Tags)
	}
	if in.IsPublished != nil {
		blog.IsPublished = *in.IsPublished
	}
}

func validateBlog(blog *model.Blog) error {
	if blog.Title == "" {
		return common.NewError(common.ErrValidation, "Please add a title")
	}
	if utf8.RuneCountInString(blog.Title) > model.BlogTitleMaxLen {
		return common.NewError(common.ErrValidation, "Title can not be more than %d characters", model.BlogTitleMaxLen)
	}
	if strings.TrimSpace(blog.Content) == "" {
		return common.NewError(common.ErrValidation, "Please add content")
	}
	if utf8.RuneCountInString(blog.Excerpt) > model.BlogExcerptMaxLen {
		return common.NewError(common.ErrValidation, "Excerpt can not be more than %d characters", model.BlogExcerptMaxLen)
	}
	if len(blog.Tags) == 0 {
		return common.NewError(common.ErrValidation, "Please add at least one tag")
	}
	return nil
}

// normalizeTags trims, drops blanks and collapses duplicates keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
