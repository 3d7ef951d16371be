package outfit

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/stylemate/stylemate/internal/item"
	"github.com/stylemate/stylemate/internal/llm"
)

const (
	collageWidth  = 600
	collageHeight = 800
)

// thumbnailAlpha is the opacity item thumbnails are drawn with so the
// placeholder figure stays visible underneath.
const thumbnailAlpha = 178

// anchorZones are the fixed rectangles each category's thumbnail is drawn
// into. Items sharing a zone are drawn in list order; the last one wins.
var anchorZones = map[item.Category]image.Rectangle{
	item.CategoryTops:        image.Rect(230, 180, 370, 340),
	item.CategoryBottoms:     image.Rect(230, 340, 370, 530),
	item.CategoryOuterwear:   image.Rect(70, 170, 215, 400),
	item.CategoryShoes:       image.Rect(230, 540, 370, 620),
	item.CategoryAccessories: image.Rect(385, 170, 510, 290),
}

// CollageRenderer draws the local placeholder composite used when AI image
// generation is unavailable or fails.
type CollageRenderer struct {
	downloader *llm.ImageDownloader
}

func NewCollageRenderer() *CollageRenderer {
	return &CollageRenderer{downloader: llm.NewImageDownloader()}
}

// Render composites the placeholder figure, item thumbnails and captions
// into a single PNG and returns it as a data URI. Items whose image cannot
// be downloaded or decoded are skipped; renders with zero item images are
// still complete. aiConfigured controls the API-key notice at the bottom.
func (r *CollageRenderer) Render(ctx context.Context, profile item.Profile, items []item.Item, aiConfigured bool) (*item.OutfitArtifact, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, collageWidth, collageHeight))

	drawGradient(canvas, color.RGBA{245, 240, 255, 255}, color.RGBA{255, 232, 240, 255})
	drawFigure(canvas)

	// Item thumbnails, sequentially in list order so overlap is
	// deterministic.
	for _, it := range items {
		if it.ImageURL == "" {
			continue
		}
		thumb, err := r.loadImage(ctx, it.ImageURL)
		if err != nil {
			log.Warn().Err(err).Str("image", it.ImageURL).Msg("skipping item image in collage")
			continue
		}
		zone := anchorZones[it.Category]
		scaled := image.NewRGBA(image.Rect(0, 0, zone.Dx(), zone.Dy()))
		xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), thumb, thumb.Bounds(), xdraw.Over, nil)
		mask := image.NewUniform(color.Alpha{thumbnailAlpha})
		draw.DrawMask(canvas, zone, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	}

	title := "Today's Outfit"
	caption := fmt.Sprintf("%s / %s", profile.GenderNoun(), profile.BodyType.Phrase())
	drawText(canvas, 30, 40, color.RGBA{60, 50, 80, 255}, title)
	drawText(canvas, 30, 60, color.RGBA{110, 100, 130, 255}, caption)

	y := 650
	for i, it := range items {
		if i >= 8 {
			break
		}
		line := fmt.Sprintf("%s %s", it.Category.Emoji(), it.Name)
		drawText(canvas, 30, y, color.RGBA{60, 50, 80, 255}, line)
		y += 18
	}

	if !aiConfigured {
		drawText(canvas, 30, collageHeight-20, color.RGBA{150, 140, 160, 255},
			"Set an API key to get AI-generated outfit images")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode collage: %w", err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return &item.OutfitArtifact{ImageDataURI: uri}, nil
}

func (r *CollageRenderer) loadImage(ctx context.Context, imageURL string) (image.Image, error) {
	data, _, err := r.downloader.DownloadFromURL(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// drawGradient fills the canvas with a vertical gradient from top to bottom.
func drawGradient(canvas *image.RGBA, top, bottom color.RGBA) {
	b := canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(b.Dy()-1)
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 255,
		}
		draw.Draw(canvas, image.Rect(b.Min.X, y, b.Max.X, y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawFigure draws the placeholder person from basic shapes: head, torso,
// arms and legs.
func drawFigure(canvas *image.RGBA) {
	skin := color.RGBA{225, 210, 200, 255}
	fillCircle(canvas, 300, 130, 38, skin)                 // head
	fillRect(canvas, image.Rect(255, 180, 345, 360), skin) // torso
	fillRect(canvas, image.Rect(230, 185, 255, 330), skin) // left arm
	fillRect(canvas, image.Rect(345, 185, 370, 330), skin) // right arm
	fillRect(canvas, image.Rect(262, 360, 296, 560), skin) // left leg
	fillRect(canvas, image.Rect(304, 360, 338, 560), skin) // right leg
}

func fillRect(canvas *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(canvas, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func fillCircle(canvas *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				canvas.Set(x, y, c)
			}
		}
	}
}

// drawText draws a single line with the built-in bitmap face. Glyphs outside
// its coverage render blank, which is acceptable for a placeholder image.
func drawText(canvas *image.RGBA, x, y int, c color.RGBA, text string) {
	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(strings.ToValidUTF8(text, ""))
}
