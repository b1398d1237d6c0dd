package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	panelWidth   = 1200
	statsHeight  = 180
	chartsHeight = 400
	barWidthPx   = 700
)

// StatTile is one card of the statistics panel. Trend > 0 colours the caption
// as growth, < 0 as decline.
type StatTile struct {
	Title   string
	Value   string
	Caption string
	Trend   int
}

// ChartPoint is a labelled value of a bar or pie chart.
type ChartPoint struct {
	Label string
	Value float64
}

// ChartSpec is one chart of the charts panel.
type ChartSpec struct {
	Title  string
	Points []ChartPoint
}

// Rasterizer draws the report panels embedded in the PDF.
type Rasterizer struct {
	theme Theme
}

// NewRasterizer builds a rasterizer for theme.
func NewRasterizer(theme Theme) *Rasterizer {
	return &Rasterizer{theme: theme}
}

// Theme returns the palette in use.
func (r *Rasterizer) Theme() Theme {
	return r.theme
}

// StatsPanel draws the headline statistic cards side by side.
func (r *Rasterizer) StatsPanel(tiles []StatTile) ([]byte, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("stats panel requires at least one tile")
	}
	img := image.NewRGBA(image.Rect(0, 0, panelWidth, statsHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.theme.Background), image.Point{}, draw.Src)

	const pad = 16
	tileW := (panelWidth - pad*(len(tiles)+1)) / len(tiles)
	for i, tile := range tiles {
		x := pad + i*(tileW+pad)
		box := image.Rect(x, pad, x+tileW, statsHeight-pad)
		draw.Draw(img, box, image.NewUniform(r.theme.Surface), image.Point{}, draw.Src)
		accent := image.Rect(x, pad, x+4, statsHeight-pad)
		draw.Draw(img, accent, image.NewUniform(r.theme.SeriesColor(i)), image.Point{}, draw.Src)

		drawText(img, x+16, pad+28, tile.Title, r.theme.Muted, 1)
		drawText(img, x+16, pad+40, tile.Value, r.theme.Text, 4)

		captionColor := r.theme.Muted
		switch {
		case tile.Trend > 0:
			captionColor = r.theme.Positive
		case tile.Trend < 0:
			captionColor = r.theme.Negative
		}
		drawText(img, x+16, statsHeight-pad-16, tile.Caption, captionColor, 1)
	}
	return encodePNG(img)
}

// ChartsPanel renders a bar chart and a pie chart next to each other.
func (r *Rasterizer) ChartsPanel(bars, pie ChartSpec) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, panelWidth, chartsHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.theme.Background), image.Point{}, draw.Src)

	barImg, err := r.barChart(bars, barWidthPx, chartsHeight)
	if err != nil {
		return nil, err
	}
	draw.Draw(img, image.Rect(0, 0, barWidthPx, chartsHeight), barImg, barImg.Bounds().Min, draw.Over)

	pieArea := image.Rect(barWidthPx, 0, panelWidth, chartsHeight)
	pieImg, err := r.pieChart(pie, pieArea.Dx(), pieArea.Dy())
	if err != nil {
		return nil, err
	}
	draw.Draw(img, pieArea, pieImg, pieImg.Bounds().Min, draw.Over)
	return encodePNG(img)
}

func (r *Rasterizer) barChart(spec ChartSpec, width, height int) (image.Image, error) {
	if len(spec.Points) == 0 {
		return r.placeholder(spec.Title, width, height), nil
	}
	maxValue := 1.0
	values := make([]chart.Value, 0, len(spec.Points))
	for _, p := range spec.Points {
		if p.Value > maxValue {
			maxValue = p.Value
		}
		values = append(values, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   toDrawing(r.theme.Accent),
				StrokeColor: toDrawing(r.theme.Accent),
			},
		})
	}
	axis := chart.Style{FontColor: toDrawing(r.theme.Text), StrokeColor: toDrawing(r.theme.Muted)}
	bc := chart.BarChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: toDrawing(r.theme.Text)},
		Width:      width,
		Height:     height,
		BarWidth:   36,
		BarSpacing: 14,
		Background: chart.Style{
			FillColor: toDrawing(r.theme.Background),
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: toDrawing(r.theme.Background)},
		XAxis:  axis,
		YAxis: chart.YAxis{
			Style: axis,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: values,
	}
	return renderChart(bc.Render)
}

func (r *Rasterizer) pieChart(spec ChartSpec, width, height int) (image.Image, error) {
	values := make([]chart.Value, 0, len(spec.Points))
	for i, p := range spec.Points {
		if p.Value <= 0 {
			continue
		}
		c := toDrawing(r.theme.SeriesColor(i))
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%.0f)", p.Label, p.Value),
			Value: p.Value,
			Style: chart.Style{FillColor: c, StrokeColor: toDrawing(r.theme.Background), FontColor: toDrawing(r.theme.Text)},
		})
	}
	if len(values) == 0 {
		return r.placeholder(spec.Title, width, height), nil
	}
	pc := chart.PieChart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontColor: toDrawing(r.theme.Text)},
		Width:      width,
		Height:     height,
		Background: chart.Style{
			FillColor: toDrawing(r.theme.Background),
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: toDrawing(r.theme.Background)},
		Values: values,
	}
	return renderChart(pc.Render)
}

// placeholder is drawn instead of a chart that has nothing to plot.
func (r *Rasterizer) placeholder(title string, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.theme.Background), image.Point{}, draw.Src)
	drawText(img, 16, 32, title, r.theme.Text, 2)
	drawText(img, width/2-28, height/2, "No data", r.theme.Muted, 1)
	return img
}

func renderChart(render func(chart.RendererProvider, io.Writer) error) (image.Image, error) {
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return img, nil
}

// drawText writes s with its baseline at y using the 7x13 bitmap face,
// enlarged by scale with nearest-neighbour sampling.
func drawText(dst *image.RGBA, x, y int, s string, col color.Color, scale int) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	if scale <= 1 {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
		d.DrawString(s)
		return
	}
	ascent := face.Metrics().Ascent.Ceil()
	height := face.Metrics().Height.Ceil()
	width := font.MeasureString(face, s).Ceil()
	tmp := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{Dst: tmp, Src: image.NewUniform(col), Face: face, Dot: fixed.P(0, ascent)}
	d.DrawString(s)

	target := image.Rect(x, y, x+width*scale, y+height*scale)
	xdraw.NearestNeighbor.Scale(dst, target, tmp, tmp.Bounds(), xdraw.Over, nil)
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
