package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// SaveUploadedImage writes an uploaded image under dir with a fresh uuid name
// and returns the stored filename.
func SaveUploadedImage(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	ext := filepath.Ext(header.Filename)
	if !supportedImageExts[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ext
	path := filepath.Join(dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return filename, nil
}

// CreateThumb renders a width-bounded thumbnail next to the original,
// named <name>_thumb<ext>. Aspect ratio is preserved.
func CreateThumb(filename, dir string, width int) error {
	ext := filepath.Ext(filename)
	if ext == ".webp" {
		// imaging has no webp codec; webp uploads ship without a thumbnail.
		return nil
	}

	src := filepath.Join(dir, filename)
	img, err := imaging.Open(src)
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

	base := filename[:len(filename)-len(ext)]
	return imaging.Save(thumb, filepath.Join(dir, base+"_thumb"+ext))
}
