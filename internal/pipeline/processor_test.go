package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"docpipe/constants"
	"docpipe/internal/classify"
	"docpipe/internal/entities"
	"docpipe/internal/entity"
	"docpipe/internal/ocr"
	"docpipe/internal/raster"
	"docpipe/internal/tables"
	"docpipe/internal/textextract"
)

type fakeRasterizer struct {
	pages int
	fail  bool
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ []byte) ([]entity.PageImage, error) {
	if f.fail {
		return nil, &raster.RasterizationError{Detail: "corrupt pdf"}
	}
	imgs := make([]entity.PageImage, f.pages)
	for i := range imgs {
		imgs[i] = entity.PageImage{Number: i + 1, Data: []byte{byte(i + 1)}}
	}
	return imgs, nil
}

// pageEngine returns per-page canned results keyed by the page number stashed
// in the image data.
type pageEngine struct {
	name    string
	results map[int]ocr.Recognition
	errs    map[int]error
}

func (e *pageEngine) Name() string { return e.name }

func (e *pageEngine) Recognize(_ context.Context, img entity.PageImage) (ocr.Recognition, error) {
	page := int(img.Data[0])
	if err, ok := e.errs[page]; ok {
		return ocr.Recognition{}, &ocr.EngineError{Engine: e.name, Cause: err}
	}
	if rec, ok := e.results[page]; ok {
		return rec, nil
	}
	return ocr.Recognition{}, &ocr.EngineError{Engine: e.name, Cause: errors.New("no result configured")}
}

type fakeDetector struct {
	tables map[int][]tables.RawTable
}

func (d *fakeDetector) DetectTables(_ context.Context, img entity.PageImage) ([]tables.RawTable, error) {
	return d.tables[int(img.Data[0])], nil
}

func newTestProcessor(rz raster.Rasterizer, engines []textextract.EngineConfig, tablesEnabled bool, det tables.Detector) *Processor {
	var tblStage *tables.Stage
	if tablesEnabled {
		tblStage = tables.NewStage(det, 0.2, 0, nil)
	}
	return NewProcessor(nil, Config{PageWorkers: 2, TablesEnabled: tablesEnabled},
		rz,
		textextract.NewStage(engines, 0, nil),
		classify.NewClassifier(0.4, nil),
		entities.NewStage(entities.NewRegexTagger(), 0, nil),
		tblStage,
		nil,
	)
}

func TestProcessTwoPageMixedConfidence(t *testing.T) {
	// page 1: top engine clears its threshold outright
	// page 2: top engine errors, fallback returns 0.4 which is below its
	// threshold, so the page is kept as degraded
	top := &pageEngine{
		name: "top",
		results: map[int]ocr.Recognition{
			1: {Text: "Invoice subtotal total tax amount due", Confidence: 0.95},
		},
		errs: map[int]error{2: errors.New("engine crashed")},
	}
	fallback := &pageEngine{
		name: "fallback",
		results: map[int]ocr.Recognition{
			2: {Text: "bill to payment terms invoice number: INV-42", Confidence: 0.4},
		},
	}
	engines := []textextract.EngineConfig{
		{Engine: top, Threshold: 0.75},
		{Engine: fallback, Threshold: 0.6},
	}

	p := newTestProcessor(&fakeRasterizer{pages: 2}, engines, false, nil)
	res, err := p.Process(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if res.Status != constants.DocCompleted {
		t.Errorf("expected completed, got %s", res.Status)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	if res.Pages[0].Number != 1 || res.Pages[1].Number != 2 {
		t.Errorf("page order not preserved: %d, %d", res.Pages[0].Number, res.Pages[1].Number)
	}
	if res.Pages[0].Text.Engine != "top" || res.Pages[0].Text.Confidence != 0.95 {
		t.Errorf("page 1 should carry the top engine result verbatim, got %+v", res.Pages[0].Text)
	}
	if res.Pages[1].Text.Engine != "fallback" {
		t.Errorf("page 2 should carry the fallback result, got %+v", res.Pages[1].Text)
	}

	if got := res.Statuses.Pages[0].Text; got != constants.StageOK {
		t.Errorf("page 1 status = %s, want ok", got)
	}
	if got := res.Statuses.Pages[1].Text; got != constants.StageDegraded {
		t.Errorf("page 2 status = %s, want degraded", got)
	}

	// classification must see both pages' text: invoice hints are split
	// across the two pages and only together clear the threshold
	if res.Classification.Label != constants.Invoice {
		t.Errorf("expected Invoice from concatenated text, got %s", res.Classification.Label)
	}
}

func TestProcessRasterizationFailure(t *testing.T) {
	p := newTestProcessor(&fakeRasterizer{fail: true}, nil, false, nil)
	res, err := p.Process(context.Background(), []byte("not a pdf"))

	var rerr *raster.RasterizationError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RasterizationError, got %v", err)
	}
	if res == nil {
		t.Fatal("caller must always receive a DocumentResult")
	}
	if res.Status != constants.DocFailed {
		t.Errorf("expected failed document, got %s", res.Status)
	}
	if len(res.Pages) != 0 {
		t.Errorf("expected zero pages, got %d", len(res.Pages))
	}
	if res.Statuses.Rasterize != constants.StageFailed {
		t.Errorf("rasterize status = %s, want failed", res.Statuses.Rasterize)
	}
	if res.Statuses.Classify != constants.StageSkipped || res.Statuses.Entities != constants.StageSkipped {
		t.Errorf("no classification/entities may be attempted: classify=%s entities=%s",
			res.Statuses.Classify, res.Statuses.Entities)
	}
}

func TestProcessFailedPageListedNotDropped(t *testing.T) {
	// page 2 fails on every engine; it must still appear in the status
	// record, with empty text, excluded from the concatenation
	eng := &pageEngine{
		name: "only",
		results: map[int]ocr.Recognition{
			1: {Text: "invoice total $10.00 due 01/02/2024", Confidence: 0.9},
			3: {Text: "subtotal tax bill to someone@example.com", Confidence: 0.9},
		},
		errs: map[int]error{2: errors.New("boom")},
	}
	engines := []textextract.EngineConfig{{Engine: eng, Threshold: 0.5}}

	p := newTestProcessor(&fakeRasterizer{pages: 3}, engines, false, nil)
	res, err := p.Process(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(res.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(res.Pages))
	}
	if len(res.Statuses.Pages) != 3 {
		t.Fatalf("expected 3 page statuses, got %d", len(res.Statuses.Pages))
	}
	if res.Statuses.Pages[1].Text != constants.StageFailed {
		t.Errorf("page 2 status = %s, want failed", res.Statuses.Pages[1].Text)
	}
	if res.Pages[1].Text.Text != "" {
		t.Errorf("failed page must have empty text, got %q", res.Pages[1].Text.Text)
	}

	// entities found on page 3's text must be attributed to page 3, not 2
	var sawEmail bool
	for _, e := range res.Entities {
		if e.Type == constants.EntityEmail {
			sawEmail = true
			if e.Page != 3 {
				t.Errorf("email entity attributed to page %d, want 3", e.Page)
			}
		}
	}
	if !sawEmail {
		t.Error("expected an email entity from page 3")
	}
}

func TestProcessTablesPerPage(t *testing.T) {
	eng := &pageEngine{
		name: "only",
		results: map[int]ocr.Recognition{
			1: {Text: "some text", Confidence: 0.9},
			2: {Text: "more text", Confidence: 0.9},
		},
	}
	det := &fakeDetector{tables: map[int][]tables.RawTable{
		2: {{{"a", "b"}, {"c"}}},
	}}
	p := newTestProcessor(&fakeRasterizer{pages: 2},
		[]textextract.EngineConfig{{Engine: eng, Threshold: 0.5}}, true, det)

	res, err := p.Process(context.Background(), []byte("%PDF"))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if len(res.Pages[0].Tables) != 0 {
		t.Errorf("page 1 should have no tables, got %d", len(res.Pages[0].Tables))
	}
	if len(res.Pages[1].Tables) != 1 {
		t.Fatalf("page 2 should have 1 table, got %d", len(res.Pages[1].Tables))
	}
	tbl := res.Pages[1].Tables[0]
	for i, row := range tbl.Rows {
		if len(row) != 2 {
			t.Errorf("row %d has %d cells, want 2", i, len(row))
		}
	}
	if res.Statuses.Pages[0].Tables != constants.StageOK {
		t.Errorf("page 1 tables status = %s, want ok", res.Statuses.Pages[0].Tables)
	}
}

func TestProcessCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := &pageEngine{name: "only", results: map[int]ocr.Recognition{}}
	for i := 1; i <= 4; i++ {
		eng.results[i] = ocr.Recognition{Text: fmt.Sprintf("page %d", i), Confidence: 0.9}
	}
	p := newTestProcessor(&fakeRasterizer{pages: 4},
		[]textextract.EngineConfig{{Engine: eng, Threshold: 0.5}}, false, nil)

	res, err := p.Process(ctx, []byte("%PDF"))
	if err == nil {
		t.Fatal("expected an error for a cancelled run")
	}
	if res == nil {
		t.Fatal("caller must still receive a DocumentResult")
	}
	if res.Status != constants.DocFailed {
		t.Errorf("expected failed document on cancellation, got %s", res.Status)
	}
	if len(res.Statuses.Pages) != 4 {
		t.Fatalf("got %d page statuses, want 4", len(res.Statuses.Pages))
	}
	for i, ps := range res.Statuses.Pages {
		if ps.Page != i+1 {
			t.Errorf("page status %d numbered %d", i, ps.Page)
		}
		// pages the cancelled run never reached must still carry a valid
		// status, not the zero value
		if ps.Text != constants.StageSkipped && ps.Text != constants.StageFailed {
			t.Errorf("page %d text status = %q, want skipped or failed", ps.Page, ps.Text)
		}
		if ps.Tables != constants.StageSkipped {
			t.Errorf("page %d tables status = %q, want skipped", ps.Page, ps.Tables)
		}
	}
}
