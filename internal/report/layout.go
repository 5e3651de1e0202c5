package report

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"inspection-system/internal/checklist"
	"inspection-system/internal/entities"
)

const (
	ReportTitle = "Relatório de Inspeção e Lavagem"
	Unanswered  = "Não Respondido"

	DisplayDateLayout = "02/01/2006 15:04"
)

// A4 geometry and block heights in millimetres.
const (
	PageHeightMM              = 297.0
	TopMarginMM               = 20.0
	BottomMarginMM            = 20.0
	DefaultPageBreakThreshold = 250.0

	titleMM         = 15.0
	dateLineMM      = 10.0
	headingMM       = 7.0
	lineMM          = 5.0
	blockGapMM      = 10.0
	checklistHeadMM = 10.0
	tableHeadMM     = 8.0
	rowLineMM       = 7.0

	cellChars        = 45
	observationChars = 95
)

type BlockKind string

const (
	BlockHeader       BlockKind = "header"
	BlockEmployee     BlockKind = "employee"
	BlockClient       BlockKind = "client"
	BlockVehicle      BlockKind = "vehicle"
	BlockChecklist    BlockKind = "checklist"
	BlockSection      BlockKind = "section"
	BlockObservations BlockKind = "observations"
	BlockPhotos       BlockKind = "photos"
)

type Row struct {
	Item   string
	Status string
}

type Block struct {
	Kind      BlockKind
	Title     string
	Lines     []string
	Rows      []Row
	Continued bool
	HeightMM  float64
}

type Page struct {
	Blocks []Block
}

type Document struct {
	Title       string
	ServiceID   string
	GeneratedAt string
	Pages       []Page
}

// Rows returns every checklist row across pages, in order.
func (d Document) Rows() []Row {
	var rows []Row
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == BlockSection {
				rows = append(rows, b.Rows...)
			}
		}
	}
	return rows
}

type LayoutOptions struct {
	// PageBreakThresholdMM starts a new page before a section or the
	// observations block once the cursor is past it.
	PageBreakThresholdMM float64
	Location             *time.Location
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	if o.PageBreakThresholdMM <= 0 {
		o.PageBreakThresholdMM = DefaultPageBreakThreshold
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Build lays out the report for service. answers should be the effective
// answers from checklist.Engine.ResolveAnswers and subjects should come from
// SubjectsFor.
func Build(
	service *entities.Service,
	subjects entities.Snapshot,
	answers entities.Answers,
	sections []entities.ChecklistSection,
	items []entities.ChecklistItem,
	generatedAt time.Time,
	opts LayoutOptions,
) Document {
	opts = opts.withDefaults()
	l := newLayout(opts.PageBreakThresholdMM)

	l.place(Block{
		Kind:     BlockHeader,
		Title:    ReportTitle,
		Lines:    []string{"Data: " + service.CreatedAt.In(opts.Location).Format(DisplayDateLayout)},
		HeightMM: titleMM + dateLineMM,
	})
	l.placeDetails(BlockEmployee, "Funcionário", []string{
		"Nome: " + orNA(subjects.EmployeeDetails.Username),
		"Cargo: " + orNA(subjects.EmployeeDetails.Cargo),
	})
	l.placeDetails(BlockClient, "Cliente", []string{
		"Nome: " + subjects.ClientDetails.Name,
		"Telefone: " + subjects.ClientDetails.Phone,
	})
	l.placeDetails(BlockVehicle, "Veículo", vehicleLines(subjects.VehicleDetails))

	l.place(Block{Kind: BlockChecklist, Title: "Checklist de Inspeção", HeightMM: checklistHeadMM})

	for _, section := range checklist.SortSections(sections) {
		sectionItems := checklist.ItemsOf(section.ID, items)
		rows := make([]Row, 0, len(sectionItems))
		for _, item := range sectionItems {
			value, _ := answers.Get(section.ID, item.ID)
			rows = append(rows, Row{Item: item.Title, Status: displayValue(item, value, opts.Location)})
		}
		l.placeTable(section.Title, rows)
	}

	if obs := strings.TrimSpace(service.Observations.String); obs != "" {
		lines := wrap(obs, observationChars)
		l.breakIfPastThreshold()
		l.place(Block{
			Kind:     BlockObservations,
			Title:    "Observações",
			Lines:    lines,
			HeightMM: headingMM + float64(len(lines))*lineMM + blockGapMM,
		})
	}

	if n := len(service.Photos); n > 0 {
		l.newPage()
		l.place(Block{
			Kind:     BlockPhotos,
			Title:    "Fotos Anexadas",
			Lines:    []string{fmt.Sprintf("Total de fotos: %d", n)},
			HeightMM: checklistHeadMM + lineMM,
		})
	}

	return Document{
		Title:       ReportTitle,
		ServiceID:   service.ID,
		GeneratedAt: generatedAt.In(opts.Location).Format(DisplayDateLayout),
		Pages:       l.pages,
	}
}

func vehicleLines(v entities.VehicleDetails) []string {
	lines := []string{
		"Tipo: " + v.Type,
		"Modelo/Ano: " + v.ModelYear,
		"Placa: " + v.Plate,
	}
	if v.DriverName != "" {
		lines = append(lines, "Motorista: "+v.DriverName)
	}
	if v.KmCurrent != nil && *v.KmCurrent > 0 {
		lines = append(lines, fmt.Sprintf("KM Atual: %d", *v.KmCurrent))
	}
	return lines
}

func displayValue(item entities.ChecklistItem, value string, loc *time.Location) string {
	if strings.TrimSpace(value) == "" {
		return Unanswered
	}
	if item.ResponseType == entities.ResponseDateTime {
		if t, err := checklist.ParseDateTime(value); err == nil {
			if t.Location() != time.Local {
				t = t.In(loc)
			}
			return t.Format(DisplayDateLayout)
		}
	}
	return value
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

type layout struct {
	threshold float64
	bottom    float64
	y         float64
	pages     []Page
}

func newLayout(threshold float64) *layout {
	return &layout{
		threshold: threshold,
		bottom:    PageHeightMM - BottomMarginMM,
		y:         TopMarginMM,
		pages:     []Page{{}},
	}
}

func (l *layout) current() *Page { return &l.pages[len(l.pages)-1] }

func (l *layout) atTop() bool { return l.y == TopMarginMM }

func (l *layout) newPage() {
	if len(l.current().Blocks) == 0 {
		return
	}
	l.pages = append(l.pages, Page{})
	l.y = TopMarginMM
}

func (l *layout) breakIfPastThreshold() {
	if l.y > l.threshold {
		l.newPage()
	}
}

// place appends b, moving to a new page first when it does not fit.
func (l *layout) place(b Block) {
	if !l.atTop() && l.y+b.HeightMM > l.bottom {
		l.newPage()
	}
	l.current().Blocks = append(l.current().Blocks, b)
	l.y += b.HeightMM
}

func (l *layout) placeDetails(kind BlockKind, title string, lines []string) {
	l.place(Block{
		Kind:     kind,
		Title:    title,
		Lines:    lines,
		HeightMM: headingMM + float64(len(lines))*lineMM + blockGapMM,
	})
}

// placeTable splits a section across pages row by row, repeating the table
// head on each continuation.
func (l *layout) placeTable(title string, rows []Row) {
	l.breakIfPastThreshold()

	firstRow := rowLineMM
	if len(rows) > 0 {
		firstRow = rowHeight(rows[0])
	}
	if !l.atTop() && l.y+headingMM+tableHeadMM+firstRow > l.bottom {
		l.newPage()
	}

	block := Block{Kind: BlockSection, Title: title, HeightMM: headingMM + tableHeadMM}
	l.y += block.HeightMM
	for _, row := range rows {
		h := rowHeight(row)
		if l.y+h > l.bottom && len(block.Rows) > 0 {
			l.current().Blocks = append(l.current().Blocks, block)
			l.pages = append(l.pages, Page{})
			l.y = TopMarginMM + tableHeadMM
			block = Block{Kind: BlockSection, Title: title, Continued: true, HeightMM: tableHeadMM}
		}
		block.Rows = append(block.Rows, row)
		block.HeightMM += h
		l.y += h
	}
	block.HeightMM += blockGapMM
	l.y += blockGapMM
	l.current().Blocks = append(l.current().Blocks, block)
}

func rowHeight(r Row) float64 {
	lines := math.Max(float64(len(wrap(r.Item, cellChars))), float64(len(wrap(r.Status, cellChars))))
	return lines * rowLineMM
}

// wrap splits text into lines of at most width runes, breaking on spaces.
func wrap(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(current)+1+utf8.RuneCountInString(w) > width {
				lines = append(lines, current)
				current = w
				continue
			}
			current += " " + w
		}
		lines = append(lines, current)
	}
	return lines
}
