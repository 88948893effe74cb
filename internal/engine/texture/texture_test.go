package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

type mapSource map[string][]byte

func (m mapSource) Load(path string) ([]byte, error) {
	if data, ok := m[path]; ok {
		return data, nil
	}
	return nil, errors.New("not found")
}

// twoRows encodes a 1x2 PNG: red on top, blue below.
func twoRows(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	img, err := Decode(twoRows(t), "rows.png")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("top pixel = %v, want red", got)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image"), "bad.jpg"); err == nil {
		t.Error("expected decode error")
	}
}

func TestToRGBAFlip(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 6, 8))
	src.Set(5, 5, color.RGBA{1, 0, 0, 255})
	src.Set(5, 6, color.RGBA{2, 0, 0, 255})
	src.Set(5, 7, color.RGBA{3, 0, 0, 255})

	out := ToRGBA(src, true)
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("output should start at origin, got %v", out.Bounds())
	}
	for y, want := range []uint8{3, 2, 1} {
		if got := out.RGBAAt(0, y).R; got != want {
			t.Errorf("row %d = %d, want %d", y, got, want)
		}
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		max   int
		wantW int
		wantH int
	}{
		{"small", 64, 32, 128, 64, 32},
		{"wide", 400, 100, 100, 100, 25},
		{"tall", 100, 400, 100, 25, 100},
		{"no limit", 400, 100, 0, 400, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := FitWithin(img, tt.max)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("size = %v, want %dx%d", out.Bounds().Size(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestWhite(t *testing.T) {
	img := White()
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("white = %v", got)
	}
}

func newTestLoader(src Source) (*Loader, *[]uint32) {
	next := uint32(0)
	var released []uint32
	l := newLoader(src, 2048, func(*image.RGBA) uint32 {
		next++
		return next
	}, func(ids []uint32) {
		released = append(released, ids...)
	})
	return l, &released
}

func TestLoaderCachesByPath(t *testing.T) {
	l, _ := newTestLoader(mapSource{"earth/day.png": twoRows(t)})

	a, err := l.Load("earth/day.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := l.Load("earth/day.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a != b || a == 0 {
		t.Errorf("ids = %d, %d; want the same non-zero id", a, b)
	}
}

func TestLoaderFallback(t *testing.T) {
	l, released := newTestLoader(mapSource{"bad.png": []byte("garbage")})

	missing := l.LoadOrWhite("missing.png")
	bad := l.LoadOrWhite("bad.png")
	if missing != bad || missing != l.White() {
		t.Errorf("fallbacks = %d, %d; want the white texture %d", missing, bad, l.White())
	}

	l.Release()
	if len(*released) != 1 || (*released)[0] != missing {
		t.Errorf("released = %v, want only the white texture", *released)
	}
}

func TestLoaderWithoutSource(t *testing.T) {
	l, _ := newTestLoader(nil)
	if _, err := l.Load("a.png"); err == nil {
		t.Error("expected error without a source")
	}
}
