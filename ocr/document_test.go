package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wudi/ocrkit/engine"
)

func batchSources(names ...string) []engine.Source {
	srcs := make([]engine.Source, 0, len(names))
	for _, n := range names {
		srcs = append(srcs, engine.FromFile(n))
	}
	return srcs
}

func TestBatchOrderAndAlignment(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)
	defer s.Close()

	results, err := s.RecognizeBatch(context.Background(), batchSources("a0.png", "a1.png", "a2.png"))
	if err != nil {
		t.Fatalf("RecognizeBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := []string{
		"text from file(a0.png)",
		"text from file(a1.png)",
		"text from file(a2.png)",
	}
	for i, res := range results {
		if res.Text != want[i] {
			t.Errorf("results[%d].Text = %q, want %q", i, res.Text, want[i])
		}
	}
}

func TestBatchAllOrNothing(t *testing.T) {
	cause := errors.New("unreadable image")
	p := &fakeProvider{failOn: "a1.png", failErr: cause}
	s := New(p)
	defer s.Close()

	results, err := s.RecognizeBatch(context.Background(), batchSources("a0.png", "a1.png", "a2.png"))
	if err == nil {
		t.Fatal("expected batch to fail")
	}
	if results != nil {
		t.Errorf("got %d partial results, want none", len(results))
	}
	if !strings.Contains(err.Error(), "image 1") {
		t.Errorf("error = %v, want the failing index named", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, does not preserve cause", err)
	}
}

func TestBatchProgressPerItem(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)
	defer s.Close()

	finished := map[int]bool{}
	_, err := s.RecognizeBatch(context.Background(), batchSources("a0.png", "a1.png", "a2.png"),
		WithBatchProgress(func(index int, ev engine.Event) {
			if ev.Progress == 1 {
				finished[index] = true
			}
		}))
	if err != nil {
		t.Fatalf("RecognizeBatch: %v", err)
	}
	for i := 0; i < 3; i++ {
		if !finished[i] {
			t.Errorf("item %d never reported completion", i)
		}
	}

	_, _, dispOpens, dispCloses := p.snapshot()
	if dispOpens != 3 || dispCloses != 3 {
		t.Errorf("disposable opens/closes = %d/%d, want 3/3 (one handle per item)", dispOpens, dispCloses)
	}
}

func TestBatchEmpty(t *testing.T) {
	s := New(&fakeProvider{})
	defer s.Close()

	results, err := s.RecognizeBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("RecognizeBatch: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestBatchContextCanceled(t *testing.T) {
	s := New(&fakeProvider{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.RecognizeBatch(ctx, batchSources("a0.png"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDocumentAggregation(t *testing.T) {
	p := &fakeProvider{confs: []float64{80, 90, 100}}
	s := New(p)
	defer s.Close()

	doc, err := s.RecognizeDocument(context.Background(), batchSources("p1.png", "p2.png", "p3.png"))
	if err != nil {
		t.Fatalf("RecognizeDocument: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(doc.Pages))
	}
	wantText := "text from file(p1.png)" + DefaultPageBreak +
		"text from file(p2.png)" + DefaultPageBreak +
		"text from file(p3.png)"
	if doc.FullText != wantText {
		t.Errorf("FullText = %q, want %q", doc.FullText, wantText)
	}
	if doc.AvgConfidence != 90 {
		t.Errorf("AvgConfidence = %v, want 90", doc.AvgConfidence)
	}
	if doc.TotalTime <= 0 {
		t.Errorf("TotalTime = %v, want > 0", doc.TotalTime)
	}
}

func TestDocumentPageProgress(t *testing.T) {
	p := &fakeProvider{}
	s := New(p)
	defer s.Close()

	type step struct{ page, total int }
	var steps []step
	_, err := s.RecognizeDocument(context.Background(), batchSources("p1.png", "p2.png", "p3.png"),
		WithPageProgress(func(page, total int, ev engine.Event) {
			steps = append(steps, step{page, total})
		}))
	if err != nil {
		t.Fatalf("RecognizeDocument: %v", err)
	}
	if len(steps) == 0 {
		t.Fatal("no page progress delivered")
	}
	seen := map[int]bool{}
	prev := 0
	for _, st := range steps {
		if st.total != 3 {
			t.Fatalf("total = %d, want 3", st.total)
		}
		if st.page < prev {
			t.Fatalf("page numbers went backwards: %v", steps)
		}
		if st.page < 1 || st.page > 3 {
			t.Fatalf("page = %d, want 1-based within total", st.page)
		}
		prev = st.page
		seen[st.page] = true
	}
	for page := 1; page <= 3; page++ {
		if !seen[page] {
			t.Errorf("page %d never reported", page)
		}
	}
}

func TestDocumentEmpty(t *testing.T) {
	s := New(&fakeProvider{})
	defer s.Close()

	doc, err := s.RecognizeDocument(context.Background(), nil)
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("error = %v, want ErrNoPages", err)
	}
	if doc != nil {
		t.Error("got a document alongside the error")
	}
}

func TestDocumentPageBreak(t *testing.T) {
	s := New(&fakeProvider{})
	defer s.Close()

	doc, err := s.RecognizeDocument(context.Background(), batchSources("p1.png", "p2.png"),
		WithPageBreak("\n---\n"))
	if err != nil {
		t.Fatalf("RecognizeDocument: %v", err)
	}
	if got := strings.Count(doc.FullText, "\n---\n"); got != 1 {
		t.Errorf("found %d separators, want 1 in %q", got, doc.FullText)
	}
}

func TestDocumentFailure(t *testing.T) {
	cause := errors.New("torn page")
	p := &fakeProvider{failOn: "p2.png", failErr: cause}
	s := New(p)
	defer s.Close()

	doc, err := s.RecognizeDocument(context.Background(), batchSources("p1.png", "p2.png", "p3.png"))
	if err == nil {
		t.Fatal("expected document to fail")
	}
	if doc != nil {
		t.Error("got a partial document")
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Errorf("error = %v, want the failing page named", err)
	}
	var recErr *RecognitionError
	if !errors.As(err, &recErr) {
		t.Errorf("error = %v, want a *RecognitionError in the chain", err)
	}
}
