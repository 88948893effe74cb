package texture

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/logger"
)

// Source provides raw asset bytes. assets.Manager implements it.
type Source interface {
	Load(path string) ([]byte, error)
}

// Upload creates a mipmapped, repeating GL texture from img with the given
// anisotropy level (values below 1 disable it).
func Upload(img *image.RGBA, anisotropy float32) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if anisotropy >= 1 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, anisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// MaxAnisotropy queries the driver's anisotropic filtering limit.
func MaxAnisotropy() float32 {
	var v float32
	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &v)
	return v
}

// MaxSize queries the largest texture side the driver accepts.
func MaxSize() int {
	var v int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &v)
	return int(v)
}

// Loader decodes and uploads textures once per path. Paths that fail to
// load resolve to a shared 1x1 white texture.
type Loader struct {
	src     Source
	maxSize int

	upload  func(*image.RGBA) uint32
	release func(ids []uint32)

	ids   map[string]uint32
	white uint32
}

// NewLoader creates a loader uploading at the driver's max anisotropy.
// Must be called with a current GL context.
func NewLoader(src Source) *Loader {
	aniso := MaxAnisotropy()
	l := newLoader(src, MaxSize(), func(img *image.RGBA) uint32 {
		return Upload(img, aniso)
	}, func(ids []uint32) {
		gl.DeleteTextures(int32(len(ids)), &ids[0])
	})
	logger.Debug("texture loader ready", zap.Float32("anisotropy", aniso), zap.Int("maxSize", l.maxSize))
	return l
}

func newLoader(src Source, maxSize int, upload func(*image.RGBA) uint32, release func([]uint32)) *Loader {
	return &Loader{
		src:     src,
		maxSize: maxSize,
		upload:  upload,
		release: release,
		ids:     make(map[string]uint32),
	}
}

// Load returns the texture for path, decoding and uploading it on first use.
func (l *Loader) Load(path string) (uint32, error) {
	if id, ok := l.ids[path]; ok {
		return id, nil
	}
	if l.src == nil {
		return 0, errors.New("texture loader has no source")
	}
	data, err := l.src.Load(path)
	if err != nil {
		return 0, fmt.Errorf("texture %s: %w", path, err)
	}
	img, err := Decode(data, path)
	if err != nil {
		return 0, err
	}
	img = FitWithin(img, l.maxSize)
	id := l.upload(img)
	l.ids[path] = id
	logger.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return id, nil
}

// LoadOrWhite loads path, logging a warning and returning the white
// fallback texture on failure.
func (l *Loader) LoadOrWhite(path string) uint32 {
	id, err := l.Load(path)
	if err != nil {
		logger.Warn("texture unavailable, using fallback", zap.String("path", path), zap.Error(err))
		return l.White()
	}
	return id
}

// White returns the shared 1x1 white texture.
func (l *Loader) White() uint32 {
	if l.white == 0 {
		l.white = l.upload(White())
	}
	return l.white
}

// Release deletes every texture the loader created.
func (l *Loader) Release() {
	ids := make([]uint32, 0, len(l.ids)+1)
	for _, id := range l.ids {
		ids = append(ids, id)
	}
	if l.white != 0 {
		ids = append(ids, l.white)
	}
	if len(ids) > 0 {
		l.release(ids)
	}
	clear(l.ids)
	l.white = 0
}
