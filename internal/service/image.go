package service

import (
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/png"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/svillar/quiet/internal/apperr"
)

const (
	optimizedWidth  = 300
	optimizedHeight = 300
	jpegQuality     = 85
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageService turns an uploaded picture into the optimized rendition stored
// on disk: content sniffed, decoded (which drops metadata), cover-cropped to
// 300x300 anchored at the top, and re-encoded as JPEG under a random name.
type ImageService struct {
	uploadDir string
}

func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// Optimized describes the stored rendition of one upload.
type Optimized struct {
	FileName string
	Path     string
	MimeType string
	Size     int64
}

func (s *ImageService) Optimize(file io.ReadSeeker) (*Optimized, error) {
	// Sniff the real type from the first 512 bytes, not the client headers.
	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return nil, apperr.NotAcceptable("Not valid image file")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(buffer)
	if !allowedImageTypes[contentType] {
		return nil, apperr.NotAcceptable("Not valid image file")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, apperr.NotAcceptable("Not valid image file")
	}

	dst := coverResize(img, optimizedWidth, optimizedHeight)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, err
	}

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(s.uploadDir, name)

	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &Optimized{
		FileName: name,
		Path:     path,
		MimeType: "image/jpeg",
		Size:     info.Size(),
	}, nil
}

// coverResize scales src so it covers w x h, then crops the overflow,
// centered horizontally and anchored to the top edge.
func coverResize(src image.Image, w, h int) image.Image {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	scale := float64(w) / float64(srcW)
	if s := float64(h) / float64(srcH); s > scale {
		scale = s
	}

	scaledW := int(float64(srcW)*scale + 0.5)
	scaledH := int(float64(srcH)*scale + 0.5)
	if scaledW < w {
		scaledW = w
	}
	if scaledH < h {
		scaledH = h
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Src, nil)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	offset := image.Pt((scaledW-w)/2, 0)
	xdraw.Draw(dst, dst.Bounds(), scaled, offset, xdraw.Src)

	return dst
}
