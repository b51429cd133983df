package thumbnail

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cardSize      = 500
	cardWrapWidth = 60 // characters per line
	cardHeadBytes = 256
)

// nameCardThumbnail renders the file's display name onto a blank
// canvas. Used for audio files, which have no pixel content.
func nameCardThumbnail(_ context.Context, src, dst string) error {
	return textCard(filepath.Base(src), dst)
}

// contentCardThumbnail renders the first bytes of the file's content.
// The generic fallback for anything without a pixel strategy.
func contentCardThumbnail(_ context.Context, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s for card: %w", src, err)
	}
	defer f.Close()

	head := make([]byte, cardHeadBytes)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read %s for card: %w", src, err)
	}

	return textCard(printable(string(head[:n])), dst)
}

// textCard word-wraps text onto a fixed-size white canvas.
func textCard(text string, dst string) error {
	canvas := imaging.New(cardSize, cardSize, color.White)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}

	lineHeight := basicfont.Face7x13.Metrics().Height.Ceil() + 2
	y := 20
	for _, line := range wrap(text, cardWrapWidth) {
		if y > cardSize-lineHeight {
			break
		}
		drawer.Dot = fixed.P(15, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	if err := imaging.Save(canvas, dst); err != nil {
		return fmt.Errorf("failed to save text card %s: %w", dst, err)
	}
	return nil
}

// wrap splits text into lines at most width characters long, breaking
// on whitespace where possible.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder

	for _, word := range strings.Fields(text) {
		for len(word) > width {
			if line.Len() > 0 {
				lines = append(lines, line.String())
				line.Reset()
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// printable replaces bytes that would render as garbage. Content cards
// may sample binary files.
func printable(s string) string {
	s = strings.ToValidUTF8(s, " ")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' {
			return ' '
		}
		return r
	}, s)
}
