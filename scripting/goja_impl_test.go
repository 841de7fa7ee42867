package scripting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wudi/ocrkit/engine"
)

func TestGojaEngine_ContextCancellation(t *testing.T) {
	eng := NewEngine()

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	if _, err := eng.Execute(ctx, "while (true) {}"); err == nil || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}

	if _, err := eng.Execute(context.Background(), "1 + 1"); err != nil {
		t.Fatalf("engine should recover after cancellation, got %v", err)
	}
}

func TestGojaEngine_ImmediateCancel(t *testing.T) {
	eng := NewEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Execute(ctx, "42"); err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

func TestGojaEngine_ResultAccess(t *testing.T) {
	res := &engine.Result{
		Text:       "  He11o world \n",
		Confidence: 87.5,
		Words: []engine.Word{
			{Text: "He11o", Confidence: 80},
			{Text: "world", Confidence: 95},
		},
	}

	script := `
result.text = result.text.trim().replace(/He11o/, "Hello");
if (result.confidence() < 50) { result.text = ""; }
var w = result.word(0);
w.text = w.text.replace(/1/g, "l");
result.wordCount();
`
	eng := NewEngine()
	if err := eng.RegisterResult(NewResultDOM(res)); err != nil {
		t.Fatalf("RegisterResult: %v", err)
	}
	val, err := eng.Execute(context.Background(), script)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Text != "Hello world" {
		t.Errorf("text = %q, want %q", res.Text, "Hello world")
	}
	if res.Words[0].Text != "Hello" {
		t.Errorf("word 0 = %q, want Hello", res.Words[0].Text)
	}
	if res.Words[1].Text != "world" {
		t.Errorf("word 1 = %q, want untouched", res.Words[1].Text)
	}
	if n, ok := val.(int64); !ok || n != 2 {
		t.Errorf("script value = %v (%T), want 2", val, val)
	}
}

func TestGojaEngine_WordOutOfRange(t *testing.T) {
	res := &engine.Result{Words: []engine.Word{{Text: "only"}}}

	eng := NewEngine()
	if err := eng.RegisterResult(NewResultDOM(res)); err != nil {
		t.Fatalf("RegisterResult: %v", err)
	}
	val, err := eng.Execute(context.Background(), "result.word(5) === null")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if val != true {
		t.Errorf("out-of-range word = %v, want null", val)
	}
}

func TestApply(t *testing.T) {
	res := &engine.Result{Text: "raw"}
	if err := Apply(context.Background(), `result.text = result.text.toUpperCase()`, res); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Text != "RAW" {
		t.Errorf("text = %q, want RAW", res.Text)
	}
}

func TestApplySyntaxError(t *testing.T) {
	res := &engine.Result{}
	if err := Apply(context.Background(), `this is not javascript`, res); err == nil {
		t.Fatal("expected error for invalid script")
	}
}
