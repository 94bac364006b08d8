package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp"
)

// Stored copies are downscaled to fit these bounds, never upscaled.
const (
	MaxWidth  = 800
	MaxHeight = 600
)

const jpegQuality = 85

var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Store keeps goal images in a flat directory keyed by generated
// filename. Original filenames never touch the filesystem.
type Store struct {
	root string
}

func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string {
	return s.root
}

func AllowedExtension(filename string) bool {
	return allowedExtensions[extensionOf(filename)]
}

func extensionOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Save validates, resizes and persists one uploaded image, returning
// the generated filename. The caller decides whether a failure is
// fatal; during goal creation it is not.
func (s *Store) Save(r io.Reader, originalFilename string) (string, error) {
	ext := extensionOf(originalFilename)
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedType
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= MaxWidth && bounds.Dy() <= MaxHeight {
		// Already fits; keep the original bytes untouched.
		return s.write(raw, ext)
	}

	scaled := downscale(img)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, scaled)
	case "gif":
		err = gif.Encode(&buf, scaled, nil)
	default:
		// jpeg, plus webp which has no encoder in the ecosystem;
		// shrunk webp uploads are stored as jpeg.
		ext = "jpg"
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return "", fmt.Errorf("encode resized image: %w", err)
	}

	return s.write(buf.Bytes(), ext)
}

func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scaleW := float64(MaxWidth) / float64(w)
	scaleH := float64(MaxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func (s *Store) write(data []byte, ext string) (string, error) {
	filename := uuid.New().String() + "." + ext
	if err := os.WriteFile(filepath.Join(s.root, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return filename, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error; goal deletion is best-effort on the filesystem side.
func (s *Store) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(filename)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Path returns the on-disk location of a stored file.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.root, filepath.Base(filename))
}
