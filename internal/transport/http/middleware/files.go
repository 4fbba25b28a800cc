package middleware

import (
	"context"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/svillar/quiet/internal/apperr"
	"github.com/svillar/quiet/internal/domain"
	"github.com/svillar/quiet/internal/service"
	"github.com/svillar/quiet/internal/storage"
	"github.com/svillar/quiet/internal/transport/http/respond"
)

// maxUploadSize caps a single uploaded file at 8 MB.
const maxUploadSize = 8_000_000

const uploadKey contextKey = "upload"

// upload is the in-flight state of one file moving through the chain
// SingleFile → Optimize → Backup. Later stages mutate the pointer stored by
// SingleFile.
type upload struct {
	file      multipart.File
	header    *multipart.FileHeader
	optimized *service.Optimized
	image     *domain.Image
}

// Files is the upload middleware chain. backup may be nil, in which case the
// backup URL falls back to the local one.
type Files struct {
	images *service.ImageService
	backup *storage.BackupClient
}

func NewFiles(images *service.ImageService, backup *storage.BackupClient) *Files {
	return &Files{images: images, backup: backup}
}

// SingleFile extracts one file field from a multipart form and stashes it on
// the context for the rest of the chain.
func (f *Files) SingleFile(field string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
			if err := r.ParseMultipartForm(maxUploadSize); err != nil {
				respond.Error(w, apperr.NotAcceptable("Not valid image file"))
				return
			}

			file, header, err := r.FormFile(field)
			if err != nil {
				respond.Error(w, apperr.NotAcceptable("Not valid image file"))
				return
			}
			defer file.Close()

			up := &upload{file: file, header: header}
			ctx := context.WithValue(r.Context(), uploadKey, up)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optimize resizes and re-encodes the uploaded file.
func (f *Files) Optimize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up, ok := r.Context().Value(uploadKey).(*upload)
		if !ok {
			respond.Error(w, apperr.NotAcceptable("Not valid image file"))
			return
		}

		optimized, err := f.images.Optimize(up.file)
		if err != nil {
			respond.Error(w, err)
			return
		}

		up.optimized = optimized
		next.ServeHTTP(w, r)
	})
}

// Backup copies the optimized rendition to object storage and assembles the
// image record handed to the create handler.
func (f *Files) Backup(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up, ok := r.Context().Value(uploadKey).(*upload)
		if !ok || up.optimized == nil {
			respond.Error(w, apperr.NotAcceptable("Not valid image file"))
			return
		}

		img := domain.Image{
			URLOriginal: "/uploads/" + up.optimized.FileName,
			MimeType:    up.optimized.MimeType,
			Size:        up.optimized.Size,
		}

		if f.backup != nil {
			stored, err := os.Open(up.optimized.Path)
			if err != nil {
				respond.Error(w, err)
				return
			}
			defer stored.Close()

			url, err := f.backup.Upload(r.Context(), stored, up.optimized.MimeType)
			if err != nil {
				respond.Error(w, err)
				return
			}
			img.URL = url
		} else {
			img.URL = img.URLOriginal
		}

		up.image = &img
		next.ServeHTTP(w, r)
	})
}

// ImageFromContext returns the image record produced by the upload chain.
func ImageFromContext(ctx context.Context) (*domain.Image, bool) {
	up, ok := ctx.Value(uploadKey).(*upload)
	if !ok || up.image == nil {
		return nil, false
	}
	return up.image, true
}
