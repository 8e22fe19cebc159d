package engine

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	defs, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 0 {
		t.Errorf("expected no definitions, got %d", len(defs))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	defs, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 0 {
		t.Errorf("expected no definitions, got %d", len(defs))
	}
}

func TestEvaluateValidExpression(t *testing.T) {
	eng := NewEngine()

	// (+ 1 2) is valid Lisp that defines no volumes.
	defs, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 0 {
		t.Errorf("expected no definitions, got %d", len(defs))
	}
}

func TestEvaluateSingleVolume(t *testing.T) {
	eng := NewEngine()

	source := `
(volume "swim-area"
  :area "water"
  :height 10
  :descent 2
  :offset 1.5
  :points (list (pt 0 0 0) (pt 10 0 0) (pt 10 0 10) (pt 0 0 10)))
`
	defs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}

	d := defs[0]
	if d.Name != "swim-area" {
		t.Errorf("Name = %q, want %q", d.Name, "swim-area")
	}
	if d.Area != "water" {
		t.Errorf("Area = %q, want %q", d.Area, "water")
	}
	if d.Height != 10 || d.Descent != 2 || d.Offset != 1.5 {
		t.Errorf("shape params = %v/%v/%v, want 10/2/1.5", d.Height, d.Descent, d.Offset)
	}
	if len(d.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(d.Points))
	}
	if d.Points[1].X != 10 || d.Points[1].Z != 0 {
		t.Errorf("Points[1] = %v, want (10 0 0)", d.Points[1])
	}
}

func TestEvaluateDefaults(t *testing.T) {
	eng := NewEngine()

	source := `(volume "plain" :points (list (pt 0 0 0) (pt 1 0 0) (pt 0 0 1)))`
	defs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}

	d := defs[0]
	if d.Height != defaultHeight || d.Descent != defaultDescent || d.Offset != 0 {
		t.Errorf("defaults = %v/%v/%v, want %v/%v/0",
			d.Height, d.Descent, d.Offset, defaultHeight, defaultDescent)
	}
	if d.Area != "" {
		t.Errorf("Area = %q, want empty", d.Area)
	}
}

func TestEvaluateMultipleVolumes(t *testing.T) {
	eng := NewEngine()

	source := `
; helper for repeated shapes
(defn tri [x] (list (pt x 0 0) (pt (+ x 5) 0 0) (pt x 0 5)))
(volume "a" :points (tri 0))
(volume "b" :points (tri 100))
`
	defs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "a" || defs[1].Name != "b" {
		t.Errorf("names = %q, %q; want a, b", defs[0].Name, defs[1].Name)
	}
	if defs[1].Points[0].X != 100 {
		t.Errorf("second volume starts at x=%v, want 100", defs[1].Points[0].X)
	}
}

func TestEvaluatePositionalPoints(t *testing.T) {
	eng := NewEngine()

	source := `(volume "pit" :area :lava (pt 0 0 0) (pt 10 0 0) (pt 10 0 10) (pt 0 0 10))`
	defs, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	if defs[0].Area != "lava" {
		t.Errorf("Area = %q, want lava (keyword form)", defs[0].Area)
	}
	if len(defs[0].Points) != 4 {
		t.Errorf("expected 4 points, got %d", len(defs[0].Points))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	// Unmatched paren is a parse error.
	defs, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if defs != nil {
		t.Fatal("expected nil definitions on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateTooFewPoints(t *testing.T) {
	eng := NewEngine()

	defs, evalErrs, err := eng.Evaluate(`(volume "thin" :points (list (pt 0 0 0) (pt 1 0 0)))`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if defs != nil {
		t.Fatal("expected nil definitions")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for a two point volume")
	}
	if !strings.Contains(evalErrs[0].Message, "at least 3 points") {
		t.Errorf("unexpected message: %q", evalErrs[0].Message)
	}
}

func TestEvaluateMissingPoints(t *testing.T) {
	eng := NewEngine()

	defs, evalErrs, err := eng.Evaluate(`(volume "empty" :area "water")`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if defs != nil {
		t.Fatal("expected nil definitions")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected an eval error for missing points")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()

	source := `(volume "v" :points (list (pt 0 0 0) (pt 4 0 0) (pt 0 0 4)))`
	for i := 0; i < 5; i++ {
		defs, evalErrs, err := eng.Evaluate(source)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if len(defs) != 1 {
			t.Fatalf("iteration %d: expected 1 definition, got %d", i, len(defs))
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// Test the timeout plumbing directly with a channel that never
	// sends rather than finding a script that reliably hangs zygomys.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // Never sends

	done := make(chan struct{})
	var resultErr error

	go func() {
		defer close(done)
		_, _, resultErr = waitWithTimeout(ch, 1, &mu, &gen)
	}()

	select {
	case <-done:
		if resultErr == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !strings.Contains(resultErr.Error(), "timed out") {
			t.Errorf("expected timeout error message, got: %v", resultErr)
		}
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // Current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 3: unexpected token",
			wantLine: 3,
			wantMsg:  "unexpected token",
		},
		{
			name:     "line prefix format",
			msg:      "line 7: bad call",
			wantLine: 7,
			wantMsg:  "bad call",
		},
		{
			name:     "no line info",
			msg:      "something broke",
			wantLine: 0,
			wantMsg:  "something broke",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d", len(errs))
			}
			if errs[0].Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", errs[0].Line, tt.wantLine)
			}
			if errs[0].Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", errs[0].Message, tt.wantMsg)
			}
		})
	}
}

// errString is a trivial error wrapper for table tests.
type errString string

func (e errString) Error() string { return string(e) }
