// Package export renders a site's trip sheet as a PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pachawayra-service/internal/domain"
	"github.com/couchcryptid/pachawayra-service/internal/observability"
	"github.com/couchcryptid/pachawayra-service/internal/planner"
)

// Recorder receives the trip_exported activity event.
type Recorder interface {
	Record(domain.ActivityEvent)
}

// Options configures asset fetching.
type Options struct {
	FontURL      string // TTF with full Unicode coverage; empty uses Helvetica
	ImageBaseURL string // base for relative site image paths
	Timeout      time.Duration
}

// Document is a rendered trip sheet.
type Document struct {
	Filename string
	Data     []byte
}

// Exporter builds trip sheet PDFs from a site detail view-model.
type Exporter struct {
	client       *http.Client
	fontURL      string
	imageBaseURL string
	clock        clockwork.Clock
	recorder     Recorder
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// New creates an Exporter.
func New(opts Options, clock clockwork.Clock, recorder Recorder, metrics *observability.Metrics, logger *slog.Logger) *Exporter {
	return &Exporter{
		client:       &http.Client{Timeout: opts.Timeout},
		fontURL:      opts.FontURL,
		imageBaseURL: opts.ImageBaseURL,
		clock:        clock,
		recorder:     recorder,
		metrics:      metrics,
		logger:       logger,
	}
}

// Export renders detail. A font that cannot be fetched aborts the export with
// an *domain.ExternalCallError; a missing or broken image only swaps in a placeholder.
func (e *Exporter) Export(ctx context.Context, detail planner.SiteDetail) (Document, error) {
	var font []byte
	if e.fontURL != "" {
		data, err := e.fetch(ctx, e.fontURL)
		if err != nil {
			e.metrics.PDFExports.WithLabelValues("error").Inc()
			e.logger.Warn("pdf font fetch failed", "url", e.fontURL, "error", err)
			return Document{}, &domain.ExternalCallError{Op: "font fetch", Err: err}
		}
		if err := checkFont(data); err != nil {
			e.metrics.PDFExports.WithLabelValues("error").Inc()
			e.logger.Warn("pdf font asset unusable", "url", e.fontURL, "error", err)
			return Document{}, &domain.ExternalCallError{Op: "load pdf font", Err: err}
		}
		font = data
	}

	img, err := e.loadImage(ctx, detail.Site.Image)
	if err != nil {
		e.metrics.PDFImagePlaceholders.Inc()
		e.logger.Warn("site image unavailable, using placeholder",
			"site_id", detail.Site.ID,
			"image", detail.Site.Image,
			"error", err,
		)
		img = nil
	}

	now := e.clock.Now()
	data, err := render(detail, font, img, now)
	if err != nil {
		e.metrics.PDFExports.WithLabelValues("error").Inc()
		return Document{}, fmt.Errorf("render pdf for site %s: %w", detail.Site.ID, err)
	}

	e.metrics.PDFExports.WithLabelValues("success").Inc()
	e.recorder.Record(domain.NewActivityEvent(domain.ActivityTripExported, detail.Site.ID, detail.Site.Region, now))
	e.logger.Info("trip sheet exported", "site_id", detail.Site.ID, "bytes", len(data))

	return Document{Filename: Filename(detail.Site.Name, now), Data: data}, nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename returns pachawayra-<slug>-<unix millis>.pdf, where the slug is the
// lower-cased site name with whitespace runs replaced by dashes.
func Filename(siteName string, at time.Time) string {
	slug := whitespaceRun.ReplaceAllString(strings.ToLower(siteName), "-")
	return fmt.Sprintf("pachawayra-%s-%d.pdf", slug, at.UnixMilli())
}

type rgb struct{ r, g, b int }

var (
	colorPrimary = rgb{4, 120, 87}
	colorLight   = rgb{248, 250, 252}
	colorDark    = rgb{15, 23, 42}
	colorWhite   = rgb{255, 255, 255}
)

const (
	pageMargin = 20.0
	fontFamily = "NotoSans"
)

// sheet wraps the fpdf document with the font and text translation in effect.
type sheet struct {
	pdf    *fpdf.Fpdf
	family string
	bold   string
	tr     func(string) string
	width  float64
}

func (s *sheet) font(size float64, bold bool) {
	style := ""
	if bold {
		style = s.bold
	}
	s.pdf.SetFont(s.family, style, size)
}

func (s *sheet) fill(c rgb) { s.pdf.SetFillColor(c.r, c.g, c.b) }
func (s *sheet) text(c rgb) { s.pdf.SetTextColor(c.r, c.g, c.b) }

// checkFont parses a fetched font asset into a scratch document. fpdf records
// font errors on the document and panics on truncated tables.
func checkFont(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", data)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("parse font: %s", strings.TrimSpace(err.Error()))
	}
	return nil
}

func render(d planner.SiteDetail, font []byte, img *siteImage, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle("PachaWayra - "+d.Site.Name, true)
	pdf.SetCreator("pachawayra-service", true)

	w, _ := pdf.GetPageSize()
	s := &sheet{pdf: pdf, family: "Helvetica", bold: "B", width: w}
	if font != nil {
		pdf.AddUTF8FontFromBytes(fontFamily, "", font)
		s.family, s.bold = fontFamily, ""
		s.tr = func(v string) string { return v }
	} else {
		s.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFooterFunc(func() { s.footer(now) })
	pdf.AddPage()

	s.header()
	s.image(img)
	s.infoStrip(d)
	s.description(d.Site.Description)
	if d.Weather != nil {
		s.weather(d.Weather)
	}
	s.list("Recommended Activities", d.Highlights.Activities)
	s.list("Local Food & Drinks", d.Highlights.Foods)
	s.list("Packing Guide", d.PackingGuide)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *sheet) header() {
	s.fill(colorPrimary)
	s.pdf.Rect(0, 0, s.width, 20, "F")
	s.text(colorWhite)
	s.font(18, true)
	s.pdf.SetXY(0, 6)
	s.pdf.CellFormat(s.width, 8, "PachaWayra", "", 0, "C", false, 0, "")
	s.pdf.SetY(25)
}

func (s *sheet) image(img *siteImage) {
	y := s.pdf.GetY()
	inner := s.width - 2*pageMargin
	if img != nil {
		name := "site-image"
		s.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: img.imageType}, bytes.NewReader(img.data))
		s.pdf.ImageOptions(name, pageMargin, y, inner, 50, false, fpdf.ImageOptions{ImageType: img.imageType}, 0, "")
	} else {
		s.fill(colorLight)
		s.pdf.RoundedRect(pageMargin, y, inner, 50, 3, "1234", "F")
		s.text(colorDark)
		s.font(10, false)
		s.pdf.SetXY(pageMargin, y+22)
		s.pdf.CellFormat(inner, 6, "Image not available", "", 0, "C", false, 0, "")
	}
	s.pdf.SetY(y + 58)
}

func (s *sheet) infoStrip(d planner.SiteDetail) {
	y := s.pdf.GetY()
	inner := s.width - 2*pageMargin
	s.fill(colorLight)
	s.pdf.RoundedRect(pageMargin, y, inner, 12, 3, "1234", "F")
	s.text(colorDark)
	s.font(10, false)

	third := (inner - 10) / 3
	s.pdf.SetXY(pageMargin+5, y+3)
	s.pdf.CellFormat(third, 6, s.tr(d.Site.Region+", Peru"), "", 0, "L", false, 0, "")
	s.pdf.CellFormat(third, 6, s.tr(d.Site.Category), "", 0, "C", false, 0, "")
	s.pdf.CellFormat(third, 6, d.Trip.Date, "", 0, "R", false, 0, "")
	s.pdf.SetY(y + 18)
}

func (s *sheet) description(text string) {
	if text == "" {
		return
	}
	s.font(9, false)
	s.text(colorDark)
	s.pdf.SetX(pageMargin)
	s.pdf.MultiCell(s.width-2*pageMargin, 5, s.tr(text), "", "L", false)
	s.pdf.Ln(5)
}

func (s *sheet) sectionTitle(title string) {
	y := s.pdf.GetY()
	s.fill(colorPrimary)
	s.pdf.RoundedRect(pageMargin, y, s.width-2*pageMargin, 10, 3, "1234", "F")
	s.text(colorWhite)
	s.font(11, true)
	s.pdf.SetXY(pageMargin+5, y+2)
	s.pdf.CellFormat(s.width-2*pageMargin-10, 6, s.tr(title), "", 0, "L", false, 0, "")
	s.pdf.SetY(y + 12)
}

func (s *sheet) weather(w *planner.WeatherView) {
	s.sectionTitle("Weather Forecast")
	y := s.pdf.GetY()
	s.fill(colorLight)
	s.pdf.RoundedRect(pageMargin, y, s.width-2*pageMargin, 10, 2, "1234", "F")
	s.text(colorDark)
	s.font(9, false)
	line := fmt.Sprintf("%s  %d°C  |  Humidity %d%%  |  Wind %s  |  %s",
		capitalize(w.Forecast), w.TemperatureC, w.HumidityPercent,
		w.WindSpeedLabel, w.ConfidenceLabel)
	s.pdf.SetXY(pageMargin+5, y+2)
	s.pdf.CellFormat(s.width-2*pageMargin-10, 6, s.tr(line), "", 0, "L", false, 0, "")
	s.pdf.SetY(y + 16)
}

func (s *sheet) list(title string, items []string) {
	s.sectionTitle(title)
	s.pdf.Ln(2)
	s.font(9, false)
	s.text(colorDark)
	for _, item := range items {
		s.pdf.SetX(pageMargin + 5)
		s.pdf.CellFormat(s.width-2*pageMargin-5, 6, s.tr("• "+item), "", 1, "L", false, 0, "")
	}
	s.pdf.Ln(6)
}

func (s *sheet) footer(now time.Time) {
	s.fill(colorPrimary)
	s.pdf.Rect(0, 284, s.width, 13, "F")
	s.text(colorWhite)
	s.font(8, false)
	s.pdf.SetXY(0, 287)
	s.pdf.CellFormat(s.width, 5, s.tr("Generated by PachaWayra • Happy Travels!"), "", 0, "C", false, 0, "")
	s.pdf.SetXY(s.width-60, 287)
	s.pdf.CellFormat(45, 5, now.Format(domain.DateLayout), "", 0, "R", false, 0, "")
}

func capitalize(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
