package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"counsel_hub/internal/api/middleware"
	"counsel_hub/internal/app/service"
	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipart parts beyond this size spill to temp files
const multipartMemory = 1 << 20

type BlogHandler struct {
	blogService *service.BlogService
	log         *zap.Logger
}

func NewBlogHandler(bs *service.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{blogService: bs, log: log}
}

func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listBlogs)   // GET /blogs
	r.Get("/{id}", h.getBlog) // GET /blogs/{id}

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createBlog)
		adminRouter.Put("/{id}", h.updateBlog)
		adminRouter.Delete("/{id}", h.deleteBlog)
		adminRouter.Put("/{id}/image", h.uploadImage)
	})
}

func (h *BlogHandler) listBlogs(w http.ResponseWriter, r *http.Request) {
	opts, err := query.Parse(r.URL.Query(), repository.BlogQuerySchema)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	blogs, total, err := h.blogService.List(r.Context(), opts)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	data, err := opts.Project(blogs)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondList(w, len(blogs), opts.Pagination(total), data)
}

func (h *BlogHandler) getBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, blog)
}

func (h *BlogHandler) createBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var in service.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	blog, err := h.blogService.Create(r.Context(), identity, in)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusCreated, blog)
}

func (h *BlogHandler) updateBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var in service.BlogInput
	if !decodeJSON(w, r, &in) {
		return
	}
	blog, err := h.blogService.Update(r.Context(), identity, chi.URLParam(r, "id"), in)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, blog)
}

func (h *BlogHandler) deleteBlog(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	if err := h.blogService.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, struct{}{})
}

func (h *BlogHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}

	limit := h.blogService.MaxUpload()
	r.Body = http.MaxBytesReader(w, r.Body, 2*limit+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			common.RespondWithMessage(w, http.StatusBadRequest, fmt.Sprintf("Please upload an image less than %d bytes", limit))
			return
		}
		common.RespondWithMessage(w, http.StatusBadRequest, "Please upload a file")
		return
	}
	defer r.MultipartForm.RemoveAll()

	var upload *service.ImageUpload
	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		common.RespondWithMessage(w, http.StatusBadRequest, "Please upload a file")
		return
	default:
		defer file.Close()
		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = sniffContentType(file)
		}
		upload = &service.ImageUpload{
			File:        file,
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
		}
	}

	blog, err := h.blogService.UploadImage(r.Context(), identity, chi.URLParam(r, "id"), upload)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, blog)
}

func sniffContentType(file io.ReadSeeker) string {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	return http.DetectContentType(buf[:n])
}
