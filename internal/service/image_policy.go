package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	// Registered for image.DecodeConfig format detection. GIF is
	// registered so it is recognized and rejected by name.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"anoa.com/mentormatch/pkg/apperror"
)

const (
	maxImageBytes = 1 << 20 // 1 MiB
	minImageSide  = 500
	maxImageSide  = 1000
)

// DecodeProfileImage validates a base64 profile image payload and
// returns the raw bytes plus the detected format ("jpeg" or "png").
// Constraints: JPG/PNG only, square, side between 500 and 1000 pixels,
// payload at most 1 MiB. Nothing is stored when any check fails.
func DecodeProfileImage(encoded string) ([]byte, string, error) {
	// Browsers often hand over a data URL; only the payload matters.
	if idx := strings.Index(encoded, ","); idx != -1 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", apperror.Validation("Invalid image: payload is not valid base64")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", apperror.Validation("Invalid image: unrecognized image data")
	}

	if format != "jpeg" && format != "png" {
		return nil, "", apperror.Validation("Only JPG and PNG formats are allowed")
	}

	if cfg.Width != cfg.Height {
		return nil, "", apperror.Validation("Image must be square")
	}

	if cfg.Width < minImageSide || cfg.Width > maxImageSide {
		return nil, "", apperror.Validation("Image size must be between 500x500 and 1000x1000 pixels")
	}

	if len(data) > maxImageBytes {
		return nil, "", apperror.Validation("Image size must be less than 1MB")
	}

	return data, format, nil
}
