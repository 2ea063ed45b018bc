package pdfnodes_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/structs"
	"github.com/stretchr/testify/require"
)

// Fixture layout, in PDF points with a bottom-left origin on a letter page.
const (
	fixtureWidth  = 612.0
	fixtureHeight = 792.0

	fixtureTitle    = "Quarterly Report"
	fixtureBody     = "Revenue grew in every region."
	fixtureAppendix = "Appendix notes"
)

// The ruled grid: three vertical and three horizontal strokes, two by two
// cells.
var (
	fixtureGridXS = []float32{100, 250, 400}
	fixtureGridYS = []float32{500, 470, 440}
)

type fixtureText struct {
	font string
	size float32
	x, y float32
	text string
}

// buildFixture creates a two page PDF in memory. Page 0 holds a bold title,
// a body line and a ruled 2x2 table; page 1 holds a single line of text.
func buildFixture(t *testing.T, instance pdfium.Pdfium) []byte {
	t.Helper()

	doc, err := instance.FPDF_CreateNewDocument(&requests.FPDF_CreateNewDocument{})
	require.NoError(t, err)
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})

	first := newFixturePage(t, instance, doc.Document, 0)
	for _, txt := range []fixtureText{
		{font: "Helvetica-Bold", size: 18, x: 72, y: 720, text: fixtureTitle},
		{font: "Helvetica", size: 12, x: 72, y: 690, text: fixtureBody},
		{font: "Helvetica", size: 10, x: 110, y: 480, text: "Item"},
		{font: "Helvetica", size: 10, x: 260, y: 480, text: "Qty"},
		{font: "Helvetica", size: 10, x: 110, y: 450, text: "Apples"},
		{font: "Helvetica", size: 10, x: 260, y: 450, text: "3"},
	} {
		addFixtureText(t, instance, doc.Document, first, txt)
	}
	for _, x := range fixtureGridXS {
		addFixtureStroke(t, instance, first, x, fixtureGridYS[0], x, fixtureGridYS[len(fixtureGridYS)-1])
	}
	for _, y := range fixtureGridYS {
		addFixtureStroke(t, instance, first, fixtureGridXS[0], y, fixtureGridXS[len(fixtureGridXS)-1], y)
	}
	finishFixturePage(t, instance, first)

	second := newFixturePage(t, instance, doc.Document, 1)
	addFixtureText(t, instance, doc.Document, second, fixtureText{font: "Helvetica", size: 12, x: 72, y: 700, text: fixtureAppendix})
	finishFixturePage(t, instance, second)

	saved, err := instance.FPDF_SaveAsCopy(&requests.FPDF_SaveAsCopy{
		Flags:    requests.SaveFlagNoIncremental,
		Document: doc.Document,
	})
	require.NoError(t, err)
	require.NotNil(t, saved.FileBytes)
	return *saved.FileBytes
}

// writeFixture builds the fixture with an instance from the pool, releases
// the instance and returns the path of the saved file.
func writeFixture(t *testing.T, pool pdfium.Pool) string {
	t.Helper()

	instance, err := pool.GetInstance(time.Second * 30)
	require.NoError(t, err)
	data := buildFixture(t, instance)
	require.NoError(t, instance.Close())

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newFixturePage(t *testing.T, instance pdfium.Pdfium, doc references.FPDF_DOCUMENT, index int) references.FPDF_PAGE {
	t.Helper()
	page, err := instance.FPDFPage_New(&requests.FPDFPage_New{
		Document:  doc,
		PageIndex: index,
		Width:     fixtureWidth,
		Height:    fixtureHeight,
	})
	require.NoError(t, err)
	return page.Page
}

func finishFixturePage(t *testing.T, instance pdfium.Pdfium, page references.FPDF_PAGE) {
	t.Helper()
	_, err := instance.FPDFPage_GenerateContent(&requests.FPDFPage_GenerateContent{
		Page: requests.Page{ByReference: &page},
	})
	require.NoError(t, err)
	_, err = instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: page})
	require.NoError(t, err)
}

func addFixtureText(t *testing.T, instance pdfium.Pdfium, doc references.FPDF_DOCUMENT, page references.FPDF_PAGE, txt fixtureText) {
	t.Helper()

	obj, err := instance.FPDFPageObj_NewTextObj(&requests.FPDFPageObj_NewTextObj{
		Document: doc,
		Font:     txt.font,
		FontSize: txt.size,
	})
	require.NoError(t, err)

	_, err = instance.FPDFText_SetText(&requests.FPDFText_SetText{
		PageObject: obj.PageObject,
		Text:       txt.text,
	})
	require.NoError(t, err)

	_, err = instance.FPDFPageObj_Transform(&requests.FPDFPageObj_Transform{
		PageObject: obj.PageObject,
		Transform:  structs.FPDF_FS_MATRIX{A: 1, D: 1, E: txt.x, F: txt.y},
	})
	require.NoError(t, err)

	_, err = instance.FPDFPage_InsertObject(&requests.FPDFPage_InsertObject{
		Page:       requests.Page{ByReference: &page},
		PageObject: obj.PageObject,
	})
	require.NoError(t, err)
}

func addFixtureStroke(t *testing.T, instance pdfium.Pdfium, page references.FPDF_PAGE, x0, y0, x1, y1 float32) {
	t.Helper()

	path, err := instance.FPDFPageObj_CreateNewPath(&requests.FPDFPageObj_CreateNewPath{X: x0, Y: y0})
	require.NoError(t, err)

	_, err = instance.FPDFPath_LineTo(&requests.FPDFPath_LineTo{PageObject: path.PageObject, X: x1, Y: y1})
	require.NoError(t, err)

	_, err = instance.FPDFPageObj_SetStrokeColor(&requests.FPDFPageObj_SetStrokeColor{
		PageObject:  path.PageObject,
		StrokeColor: structs.FPDF_COLOR{R: 0, G: 0, B: 0, A: 255},
	})
	require.NoError(t, err)

	_, err = instance.FPDFPageObj_SetStrokeWidth(&requests.FPDFPageObj_SetStrokeWidth{
		PageObject:  path.PageObject,
		StrokeWidth: 1,
	})
	require.NoError(t, err)

	_, err = instance.FPDFPath_SetDrawMode(&requests.FPDFPath_SetDrawMode{
		PageObject: path.PageObject,
		FillMode:   enums.FPDF_FILLMODE_NONE,
		Stroke:     true,
	})
	require.NoError(t, err)

	_, err = instance.FPDFPage_InsertObject(&requests.FPDFPage_InsertObject{
		Page:       requests.Page{ByReference: &page},
		PageObject: path.PageObject,
	})
	require.NoError(t, err)
}
