package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestSaveImageReturnsURL(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	url, err := local.SaveImage(pngBytes(t), "shoe.png", false, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}

	name := strings.TrimPrefix(url, "http://localhost:8080/images/")
	if _, err := os.Stat(filepath.Join(local.Dir(), name)); err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
}

func TestSaveImageRejectsUnknownExtension(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := local.SaveImage([]byte("x"), "notes.txt", false, 0, 0); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestSaveImageWithCutoutProducesPNG(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	url, err := local.SaveImage(pngBytes(t), "shoe.jpg", true, 30, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Fatalf("cutout output must be png, got %q", url)
	}
}

func TestSaveImageCutoutFallbackKeepsExtension(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Undecodable bytes skip the cutout, so the stored file must keep the
	// original extension instead of claiming to be a png.
	url, err := local.SaveImage([]byte("not an image at all"), "shoe.jpg", true, 30, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("expected original extension kept, got %q", url)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := local.Open("../secret.png"); err == nil {
		t.Fatalf("expected error for path traversal")
	}
	if _, err := local.Open(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
