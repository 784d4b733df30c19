package service

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"anoa.com/mentormatch/pkg/apperror"
)

func encodePNG(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeProfileImageAcceptsSquarePNG(t *testing.T) {
	data, format, err := DecodeProfileImage(encodePNG(t, 600, 600))
	if err != nil {
		t.Fatalf("600x600 png rejected: %v", err)
	}
	if format != "png" {
		t.Fatalf("format: got %s", format)
	}
	if len(data) == 0 {
		t.Fatal("decoded payload is empty")
	}
}

func TestDecodeProfileImageAcceptsJPEG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 500, 500))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	_, format, err := DecodeProfileImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("500x500 jpeg rejected: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("format: got %s", format)
	}
}

func TestDecodeProfileImageStripsDataURLPrefix(t *testing.T) {
	encoded := "data:image/png;base64," + encodePNG(t, 600, 600)
	if _, _, err := DecodeProfileImage(encoded); err != nil {
		t.Fatalf("data URL payload rejected: %v", err)
	}
}

func TestDecodeProfileImageRejectsOversizedDimensions(t *testing.T) {
	_, _, err := DecodeProfileImage(encodePNG(t, 2000, 2000))
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("2000x2000 png: want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "between 500x500 and 1000x1000") {
		t.Fatalf("want dimension-specific message, got %q", err.Error())
	}
}

func TestDecodeProfileImageRejectsTooSmall(t *testing.T) {
	if _, _, err := DecodeProfileImage(encodePNG(t, 300, 300)); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("300x300 png: want validation error, got %v", err)
	}
}

func TestDecodeProfileImageRejectsNonSquare(t *testing.T) {
	_, _, err := DecodeProfileImage(encodePNG(t, 600, 500))
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("non-square png: want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "square") {
		t.Fatalf("want square message, got %q", err.Error())
	}
}

func TestDecodeProfileImageRejectsOversizedPayload(t *testing.T) {
	// Random noise does not compress; a 1000x1000 noise PNG easily
	// exceeds the 1 MiB cap while staying within the dimension bounds.
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 1000, 1000))
	for y := 0; y < 1000; y++ {
		for x := 0; x < 1000; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if buf.Len() <= maxImageBytes {
		t.Skipf("noise image unexpectedly small: %d bytes", buf.Len())
	}

	_, _, err := DecodeProfileImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("oversized payload: want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "less than 1MB") {
		t.Fatalf("want size message, got %q", err.Error())
	}
}

func TestDecodeProfileImageRejectsGIF(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 600, 600), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}

	_, _, err := DecodeProfileImage(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("gif: want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Only JPG and PNG") {
		t.Fatalf("want format message, got %q", err.Error())
	}
}

func TestDecodeProfileImageRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeProfileImage("not-base64!!!"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("invalid base64: want validation error, got %v", err)
	}

	garbage := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))
	if _, _, err := DecodeProfileImage(garbage); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("non-image payload: want validation error, got %v", err)
	}
}
