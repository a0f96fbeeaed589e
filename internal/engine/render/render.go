// Package render turns a formatted payload plus style parameters into a QR
// raster and exposes export actions on the result.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"strconv"

	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"qrforge/internal/engine/payload"
)

// Logos occupy 20% of the code's width and height; the modules beneath are
// excavated so only that region leans on the error-correction budget.
const logoRatio = 5

var (
	ErrNoContent    = errors.New("no content to render")
	ErrInvalidColor = errors.New("invalid hex color")
)

// Style carries the customization parameters for one render.
type Style struct {
	FgColor string
	BgColor string
	Size    int
	Logo    []byte // optional PNG or JPEG bytes
}

// Render encodes the payload at error-correction level H. The level is fixed
// regardless of payload length or logo presence: a logo occludes the center,
// and H tolerates that obstruction.
//
// The length policy is re-verified here even though the formatter already
// checked it, because history restoration reaches this point without passing
// through the formatter.
func Render(data string, style Style) (image.Image, error) {
	if data == "" {
		return nil, ErrNoContent
	}
	if n, tooLong := payload.TooLong(data); tooLong {
		return nil, &payload.PayloadTooLargeError{Length: n}
	}

	fg, err := parseHexColor(style.FgColor, color.RGBA{A: 0xff})
	if err != nil {
		return nil, err
	}
	bg, err := parseHexColor(style.BgColor, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if err != nil {
		return nil, err
	}

	size := style.Size
	if size <= 0 {
		size = 300
	}

	qr, err := qrcode.New(data, qrcode.Highest)
	if err != nil {
		return nil, err
	}
	qr.ForegroundColor = fg
	qr.BackgroundColor = bg

	img := qr.Image(size)
	if len(style.Logo) == 0 {
		return img, nil
	}

	return overlayLogo(img, style.Logo, bg)
}

// Terminal renders the payload as a compact block-character string for
// in-terminal preview, with the same guards as Render.
func Terminal(data string) (string, error) {
	if data == "" {
		return "", ErrNoContent
	}
	if n, tooLong := payload.TooLong(data); tooLong {
		return "", &payload.PayloadTooLargeError{Length: n}
	}

	qr, err := qrcode.New(data, qrcode.Highest)
	if err != nil {
		return "", err
	}
	return qr.ToSmallString(false), nil
}

// RenderPNG is Render followed by PNG encoding.
func RenderPNG(data string, style Style) ([]byte, error) {
	img, err := Render(data, style)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// overlayLogo excavates the center region (fills it with the background
// color) and draws the logo scaled to 20% of the code size on top.
func overlayLogo(base image.Image, logoBytes []byte, bg color.Color) (image.Image, error) {
	logo, _, err := image.Decode(bytes.NewReader(logoBytes))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}

	bounds := base.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, base, bounds.Min, draw.Src)

	logoW := bounds.Dx() / logoRatio
	logoH := bounds.Dy() / logoRatio
	x0 := bounds.Min.X + (bounds.Dx()-logoW)/2
	y0 := bounds.Min.Y + (bounds.Dy()-logoH)/2
	region := image.Rect(x0, y0, x0+logoW, y0+logoH)

	draw.Draw(dst, region, image.NewUniform(bg), image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, region, logo, logo.Bounds(), xdraw.Over, nil)

	return dst, nil
}

func parseHexColor(s string, fallback color.RGBA) (color.RGBA, error) {
	if s == "" {
		return fallback, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, ErrInvalidColor
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, ErrInvalidColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
