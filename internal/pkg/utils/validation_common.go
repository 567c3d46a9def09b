package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validImageExtensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp"}

func ValidateImage(fileHeader *multipart.FileHeader, maxSizeInMegabytes int64) error {
	if fileHeader == nil {
		return errors.New("file is missing from request")
	}

	if fileHeader.Size > maxSizeInMegabytes*1024*1024 {
		return errors.New("file size exceeds the maximum limit")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	return ValidateImageFormat(ext, validImageExtensions)
}

func ValidateUrlParamID(param string) error {
	if param == "" {
		return errors.New("parameter is missing from url path")
	}

	_, err := primitive.ObjectIDFromHex(param)
	if err != nil {
		return err
	}

	return nil
}

func ValidateImageFormat(ext string, allowedFormats []string) error {
	for _, format := range allowedFormats {
		if ext == format {
			return nil
		}
	}
	return fmt.Errorf("invalid image format. Allowed formats are: %s", strings.Join(allowedFormats, ", "))
}

func ValidateImageSize(data []byte, maxSize int) error {
	if len(data) > maxSize*1024*1024 {
		return fmt.Errorf("image exceeds maximum allowed size of %dMB", maxSize)
	}
	return nil
}
