package imageprocessor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Размер превью аватара в форме профиля
const AvatarPreviewSize = 160

var ErrNotImage = errors.New("file is not a supported image")

// Processor уменьшает изображения
type Processor struct {
	quality int // JPEG quality (1-100)
}

func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{quality: quality}
}

// Thumbnail вписывает изображение в квадрат size x size с сохранением пропорций.
// PNG остаётся PNG (прозрачность), остальное кодируется в JPEG.
func (p *Processor) Thumbnail(r io.Reader, size int) ([]byte, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	resized := p.resize(img, size, size)

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// PreviewDataURL - data: URL для мгновенного показа выбранного аватара
func (p *Processor) PreviewDataURL(r io.Reader) (string, error) {
	data, contentType, err := p.Thumbnail(r, AvatarPreviewSize)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// resize не увеличивает маленькие изображения
func (p *Processor) resize(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	newWidth := maxWidth
	newHeight := maxHeight

	if float64(maxWidth)/float64(maxHeight) > ratio {
		newWidth = int(float64(maxHeight) * ratio)
	} else {
		newHeight = int(float64(maxWidth) / ratio)
	}
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// IsValidImage проверяет, что данные декодируются как изображение
func IsValidImage(data []byte) bool {
	_, _, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil
}
