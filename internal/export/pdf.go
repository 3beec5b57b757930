package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	xdraw "golang.org/x/image/draw"

	"github.com/abhisek/planbook/internal/document"
)

// Page geometry in PDF points.
const (
	pointsPerInch = 72.0
	letterWidth   = 8.5 * pointsPerInch
	letterHeight  = 11 * pointsPerInch
	pageMargin    = 0.2 * pointsPerInch
	contentWidth  = letterWidth - 2*pageMargin

	rasterScale    = 2.0
	jpegQuality    = 98
	watermarkAlpha = 10

	logoSize = 64.0
	cellPad  = 4.0
	cellSize = 9.5
)

var (
	inkColor    = color.RGBA{R: 15, G: 23, B: 42, A: 255}
	blueColor   = color.RGBA{R: 30, G: 58, B: 138, A: 255}
	dimColor    = color.RGBA{R: 71, G: 85, B: 105, A: 255}
	ruleColor   = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	headerFill  = color.RGBA{R: 248, G: 250, B: 252, A: 255}
	remarksFill = color.RGBA{R: 254, G: 242, B: 242, A: 255}
)

// RasterPDF draws each page of a document as an image and wraps the
// images in a PDF, so the file looks the same wherever it is opened.
type RasterPDF struct {
	regular   *truetype.Font
	bold      *truetype.Font
	logo      image.Image
	watermark image.Image
}

// NewRasterPDF loads the embedded Go fonts. logo may be nil.
func NewRasterPDF(logo *Logo) (*RasterPDF, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	r := &RasterPDF{regular: regular, bold: bold}
	if logo != nil && logo.Image != nil {
		r.logo = fit(logo.Image, px(logoSize), px(logoSize))
		w := px(letterWidth / 2)
		r.watermark = fade(fit(logo.Image, w, w), watermarkAlpha)
	}
	return r, nil
}

// Encode renders doc to PDF bytes.
func (r *RasterPDF) Encode(doc *document.Document) ([]byte, error) {
	l := &layout{r: r, faces: map[faceKey]font.Face{}}
	for _, n := range doc.Nodes {
		switch n := n.(type) {
		case document.PageBreak:
			l.newPage()
		case *document.Section:
			l.section(n)
		}
	}
	return assemble(l.finish())
}

func assemble(pages []image.Image) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(DocumentTitle, true)
	pdf.SetCreator("planbook", true)

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, page := range pages {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, letterWidth, letterHeight, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

func px(pt float64) float64 { return pt * rasterScale }

func fit(img image.Image, maxW, maxH float64) image.Image {
	b := img.Bounds()
	scale := min(maxW/float64(b.Dx()), maxH/float64(b.Dy()))
	w, h := max(int(float64(b.Dx())*scale), 1), max(int(float64(b.Dy())*scale), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func fade(img image.Image, alpha uint8) image.Image {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	xdraw.DrawMask(dst, b, img, b.Min, image.NewUniform(color.Alpha{A: alpha}), image.Point{}, xdraw.Src)
	return dst
}

type faceKey struct {
	bold bool
	size float64
}

// layout tracks the page being drawn. Positions are in points from the
// top-left corner; drawing converts them to pixels.
type layout struct {
	r     *RasterPDF
	faces map[faceKey]font.Face
	dc    *gg.Context
	y     float64
	pages []image.Image
}

func (l *layout) face(bold bool, size float64) font.Face {
	k := faceKey{bold: bold, size: size}
	if f, ok := l.faces[k]; ok {
		return f
	}
	ttf := l.r.regular
	if bold {
		ttf = l.r.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: px(size), DPI: 72, Hinting: font.HintingNone})
	l.faces[k] = f
	return f
}

func (l *layout) newPage() {
	if l.dc != nil {
		l.pages = append(l.pages, l.dc.Image())
	}
	l.dc = gg.NewContext(int(px(letterWidth)), int(px(letterHeight)))
	l.dc.SetColor(color.White)
	l.dc.Clear()
	if l.r.watermark != nil {
		l.dc.DrawImageAnchored(l.r.watermark, int(px(letterWidth/2)), int(px(letterHeight/2)), 0.5, 0.5)
	}
	l.y = pageMargin
}

func (l *layout) finish() []image.Image {
	if l.dc == nil {
		l.newPage()
	}
	l.pages = append(l.pages, l.dc.Image())
	l.dc = nil
	return l.pages
}

// ensure starts a new page unless h more points fit on this one.
func (l *layout) ensure(h float64) bool {
	if l.dc == nil {
		l.newPage()
		return true
	}
	if l.y+h > letterHeight-pageMargin && l.y > pageMargin {
		l.newPage()
		return true
	}
	return false
}

func lineHeight(size float64) float64 { return size * 1.35 }

func (l *layout) wrap(text string, bold bool, size, width float64) []string {
	l.dc.SetFontFace(l.face(bold, size))
	return l.dc.WordWrap(text, px(width))
}

func (l *layout) drawLines(lines []string, bold bool, size float64, c color.Color, x, top, ax float64) {
	l.dc.SetFontFace(l.face(bold, size))
	l.dc.SetColor(c)
	lh := lineHeight(size)
	for i, line := range lines {
		baseline := top + lh*float64(i) + size*1.05
		l.dc.DrawStringAnchored(line, px(x), px(baseline), ax, 0)
	}
}

func (l *layout) paragraph(text string, bold bool, size float64, c color.Color, centered bool) {
	if l.dc == nil {
		l.newPage()
	}
	lines := l.wrap(text, bold, size, contentWidth)
	h := lineHeight(size) * float64(max(len(lines), 1))
	l.ensure(h)
	x, ax := pageMargin, 0.0
	if centered {
		x, ax = letterWidth/2, 0.5
	}
	l.drawLines(lines, bold, size, c, x, l.y, ax)
	l.y += h
}

func (l *layout) rule() {
	l.dc.SetColor(ruleColor)
	l.dc.SetLineWidth(px(1.5))
	l.dc.DrawLine(px(pageMargin), px(l.y), px(letterWidth-pageMargin), px(l.y))
	l.dc.Stroke()
}

func (l *layout) section(s *document.Section) {
	if l.dc == nil {
		l.newPage()
	}
	l.letterhead(s.Letterhead)
	l.teacherLine(s)
	l.y += 10
	l.paragraph(strings.ToUpper(s.Heading), true, 13, blueColor, true)
	l.y += 6

	meta := make([][]string, len(s.Metadata))
	for i, f := range s.Metadata {
		meta[i] = []string{f.Label, f.Value}
	}
	l.table([]float64{1.0 / 3, 2.0 / 3}, nil, meta, -1)
	l.y += 12

	details := make([][]string, len(s.Details))
	for i, d := range s.Details {
		details[i] = []string{d.Label, d.PlainText(), ""}
	}
	l.table([]float64{0.30, 0.45, 0.25}, document.DetailHeaders, details, 2)
	l.y += 12

	l.paragraph("Lesson Development", true, 11, blueColor, false)
	l.y += 4
	steps := make([][]string, len(s.Steps))
	for i, st := range s.Steps {
		steps[i] = []string{st.Stage, st.TeacherActivities, st.PupilsActivities, st.LearningPoints, ""}
	}
	l.table([]float64{0.15, 0.25, 0.25, 0.20, 0.15}, document.StepHeaders, steps, 4)
}

func (l *layout) letterhead(h document.Letterhead) {
	textX := pageMargin
	blockH := 0.0
	if l.r.logo != nil {
		blockH = logoSize
		textX += logoSize + 12
	}
	width := letterWidth - pageMargin - textX

	name := l.wrap(strings.ToUpper(h.SchoolName), true, 18, width)
	addr := l.wrap("Address: "+h.Address, false, 10, width)
	textH := lineHeight(18)*float64(len(name)) + lineHeight(10)*float64(len(addr))
	blockH = max(blockH, textH)
	l.ensure(blockH + 10)

	if l.r.logo != nil {
		l.dc.DrawImage(l.r.logo, int(px(pageMargin)), int(px(l.y)))
	}
	l.drawLines(name, true, 18, blueColor, textX, l.y, 0)
	l.drawLines(addr, false, 10, dimColor, textX, l.y+lineHeight(18)*float64(len(name)), 0)
	l.y += blockH + 6
	l.rule()
	l.y += 8
}

func (l *layout) teacherLine(s *document.Section) {
	const size = 11.0
	pairs := [][2]string{
		{"Teacher's Name: ", s.TeacherName},
		{"Term: ", s.Term},
		{"Session: ", s.Session},
	}
	lh := lineHeight(size)
	l.ensure(lh)
	x := pageMargin
	for _, p := range pairs {
		l.dc.SetFontFace(l.face(true, size))
		lw, _ := l.dc.MeasureString(p[0])
		l.dc.SetFontFace(l.face(false, size))
		vw, _ := l.dc.MeasureString(p[1])
		segment := (lw + vw) / rasterScale
		if x > pageMargin && x+segment > letterWidth-pageMargin {
			x = pageMargin
			l.y += lh
			l.ensure(lh)
		}
		l.drawLines([]string{p[0]}, true, size, blueColor, x, l.y, 0)
		l.drawLines([]string{p[1]}, false, size, inkColor, x+lw/rasterScale, l.y, 0)
		x += segment + 18
	}
	l.y += lh
}

// table draws rows with the given column fractions. A row that does not fit
// moves to the next page, where the header repeats; a row taller than a
// whole page is split between lines instead. remarks is the index of the
// shaded remarks column or -1.
func (l *layout) table(fracs []float64, header []string, rows [][]string, remarks int) {
	widths := make([]float64, len(fracs))
	for i, f := range fracs {
		widths[i] = contentWidth * f
	}

	var head [][]string
	headH := 0.0
	if header != nil {
		l.ensure(0)
		head, headH = l.cellLines(widths, header, true)
	}
	lh := lineHeight(cellSize)
	// The header never sits alone at the foot of a page.
	l.ensure(headH + lh + 2*cellPad)
	if header != nil {
		l.row(widths, head, headH, true, remarks)
	}

	pageLines := int((letterHeight - 2*pageMargin - headH - 2*cellPad) / lh)
	for _, cells := range rows {
		lines, _ := l.cellLines(widths, cells, false)
		for {
			n := tallest(lines)
			fit := int((letterHeight - pageMargin - l.y - 2*cellPad) / lh)
			if fit >= n {
				l.row(widths, lines, lh*float64(n)+2*cellPad, false, remarks)
				break
			}
			if fit >= 1 && n > pageLines {
				var chunk [][]string
				chunk, lines = splitLines(lines, fit)
				l.row(widths, chunk, lh*float64(tallest(chunk))+2*cellPad, false, remarks)
			}
			l.newPage()
			if header != nil {
				l.row(widths, head, headH, true, remarks)
			}
		}
	}
}

func tallest(lines [][]string) int {
	n := 1
	for _, c := range lines {
		n = max(n, len(c))
	}
	return n
}

// splitLines cuts every cell after its first n lines.
func splitLines(lines [][]string, n int) (head, rest [][]string) {
	head = make([][]string, len(lines))
	rest = make([][]string, len(lines))
	for i, c := range lines {
		k := min(n, len(c))
		head[i], rest[i] = c[:k], c[k:]
	}
	return head, rest
}

func (l *layout) cellLines(widths []float64, cells []string, header bool) ([][]string, float64) {
	lines := make([][]string, len(cells))
	for i, c := range cells {
		lines[i] = l.wrap(c, header || i == 0, cellSize, widths[i]-2*cellPad)
	}
	return lines, lineHeight(cellSize)*float64(tallest(lines)) + 2*cellPad
}

// row draws pre-wrapped cells h points tall at the current position.
func (l *layout) row(widths []float64, lines [][]string, h float64, header bool, remarks int) {
	x := pageMargin
	for i, w := range widths {
		var fill color.Color
		switch {
		case header:
			fill = headerFill
		case i == remarks:
			fill = remarksFill
		}
		if fill != nil {
			l.dc.SetColor(fill)
			l.dc.DrawRectangle(px(x), px(l.y), px(w), px(h))
			l.dc.Fill()
		}

		ink := color.Color(inkColor)
		if header || i == 0 {
			ink = blueColor
		}
		l.drawLines(lines[i], header || i == 0, cellSize, ink, x+cellPad, l.y+cellPad, 0)

		l.dc.SetColor(ruleColor)
		l.dc.SetLineWidth(px(0.75))
		l.dc.DrawRectangle(px(x), px(l.y), px(w), px(h))
		l.dc.Stroke()
		x += w
	}
	l.y += h
}
