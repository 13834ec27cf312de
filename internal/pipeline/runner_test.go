package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"cosplot/internal/cosine"
	"cosplot/internal/plot"
	"cosplot/internal/telemetry"
	"cosplot/internal/transform"
	"cosplot/internal/transport"
	"cosplot/source/index"
)

type fakeTransform struct {
	calls int32
	mode  string
}

func (f *fakeTransform) Health(context.Context) error { return nil }
func (f *fakeTransform) Close() error                 { return nil }
func (f *fakeTransform) Apply(ctx context.Context, v float64) (float64, error) {
	c := atomic.AddInt32(&f.calls, 1)
	switch f.mode {
	case "fail":
		return 0, errors.New("plugin down")
	case "errorThenOK":
		if c%2 == 1 {
			return 0, errors.New("transient")
		}
		return cosine.Transform(v), nil
	case "slow":
		<-ctx.Done()
		return 0, ctx.Err()
	default:
		return cosine.Transform(v), nil
	}
}

type captureSink struct {
	pushed []cosine.Point
	closed int
	failAt int
}

func (c *captureSink) Configure(any) error { return nil }
func (c *captureSink) Push(p cosine.Point) error {
	if c.failAt != 0 && p.I == c.failAt {
		return errors.New("sink full")
	}
	c.pushed = append(c.pushed, p)
	return nil
}
func (c *captureSink) Close() error { c.closed++; return nil }

func newTestRunner(t *testing.T, tr transform.Client, cs *captureSink) *Runner {
	t.Helper()
	src := &index.RangeDriver{}
	if err := src.Configure(index.DefaultConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	r := NewRunner()
	r.SetSource(src)
	r.AddTransformer("t1", tr, 100*time.Millisecond, 0, 0)
	r.AddSink("capture", cs)
	return r
}

func TestRunner_EmitsSixteenPointsInOrder(t *testing.T) {
	cs := &captureSink{}
	r := newTestRunner(t, &fakeTransform{}, cs)
	before := testutil.ToFloat64(telemetry.PointsEmitted.WithLabelValues("capture"))

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cs.pushed) != 16 {
		t.Fatalf("expected 16 pushed points, got %d", len(cs.pushed))
	}
	for n, p := range cs.pushed {
		if p != cosine.At(n+1) {
			t.Fatalf("point %d: want %+v, got %+v", n, cosine.At(n+1), p)
		}
	}
	if cs.closed != 1 {
		t.Fatalf("sink closed %d times", cs.closed)
	}
	if got := testutil.ToFloat64(telemetry.PointsEmitted.WithLabelValues("capture")) - before; got != 16 {
		t.Fatalf("points metric moved by %v, want 16", got)
	}
}

func TestRunner_TransformerRetryThenOK(t *testing.T) {
	cs := &captureSink{}
	fake := &fakeTransform{mode: "errorThenOK"}
	r := newTestRunner(t, fake, cs)
	r.stages[0].attempts = 1
	r.stages[0].backoff = time.Millisecond

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cs.pushed) != 16 {
		t.Fatalf("expected 16 pushed points after retry, got %d", len(cs.pushed))
	}
	if fake.calls != 64 {
		t.Fatalf("want 64 calls (2 applies x 2 attempts x 16), got %d", fake.calls)
	}
}

func TestRunner_TransformerFailureAbortsAndCloses(t *testing.T) {
	cs := &captureSink{}
	r := newTestRunner(t, &fakeTransform{mode: "fail"}, cs)
	err := r.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "transform t1") {
		t.Fatalf("want transform error, got %v", err)
	}
	if len(cs.pushed) != 0 {
		t.Fatalf("expected nothing pushed, got %d", len(cs.pushed))
	}
	if cs.closed != 1 {
		t.Fatal("sink not closed after failure")
	}
}

func TestRunner_TransformerTimeout(t *testing.T) {
	cs := &captureSink{}
	r := newTestRunner(t, &fakeTransform{mode: "slow"}, cs)
	r.stages[0].timeout = 5 * time.Millisecond
	if err := r.Run(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
}

func TestRunner_SinkFailureStopsAtIndex(t *testing.T) {
	cs := &captureSink{failAt: 5}
	r := newTestRunner(t, &fakeTransform{}, cs)
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected sink error")
	}
	if len(cs.pushed) != 4 {
		t.Fatalf("want 4 points before failure, got %d", len(cs.pushed))
	}
}

func TestRunner_MultiStageChain(t *testing.T) {
	cs := &captureSink{}
	r := newTestRunner(t, &fakeTransform{}, cs)
	r.AddTransformer("t2", &fakeTransform{}, 0, 0, 0)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	ff := func(v float64) float64 { return cosine.Transform(cosine.Transform(v)) }
	p := cs.pushed[0]
	if p.X != ff(1) || p.Y != ff(ff(1)) {
		t.Fatalf("chain not applied in order: %+v", p)
	}
}

func TestRunner_NeedsSourceAndSink(t *testing.T) {
	if err := NewRunner().Run(context.Background()); err == nil {
		t.Fatal("expected missing source error")
	}
	r := NewRunner()
	r.SetSource(&index.RangeDriver{})
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected missing sink error")
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	rd, wr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = wr
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(rd)
		done <- string(b)
	}()
	fn()
	os.Stdout = orig
	_ = wr.Close()
	return <-done
}

func TestDefault_PrintsSingleVariant(t *testing.T) {
	out := runDefault(t, plot.Single)
	lines := strings.Split(out, "\n")
	if len(lines) != 34 {
		t.Fatalf("want 34 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "i: 1, x: ") || !strings.HasPrefix(lines[16], "(") {
		t.Fatalf("unexpected layout: %q", out)
	}
}

func runDefault(t *testing.T, v plot.Variant) string {
	t.Helper()
	return captureStdout(t, func() {
		r, err := Default(v)
		if err != nil {
			t.Errorf("Default: %v", err)
			return
		}
		if err := r.Run(context.Background()); err != nil {
			t.Errorf("Run: %v", err)
		}
	})
}

// numberRE matches the float and integer tokens of a diagnostic or point line.
var numberRE = regexp.MustCompile(`-?[0-9]+(\.[0-9]+)?(e[-+]?[0-9]+)?`)

// sameLine compares two output lines token by token. The text around the
// numbers must match exactly; the numbers may differ in the last ulp since
// math.Cos is not guaranteed to round like the platform libm.
func sameLine(got, want string) bool {
	if numberRE.ReplaceAllString(got, "#") != numberRE.ReplaceAllString(want, "#") {
		return false
	}
	g, w := numberRE.FindAllString(got, -1), numberRE.FindAllString(want, -1)
	for n := range w {
		gv, err1 := strconv.ParseFloat(g[n], 64)
		wv, err2 := strconv.ParseFloat(w[n], 64)
		if err1 != nil || err2 != nil {
			return false
		}
		if gv != wv && math.Abs(gv-wv) > 1e-15*math.Max(1, math.Abs(wv)) {
			return false
		}
	}
	return true
}

func TestDefault_MatchesGolden(t *testing.T) {
	golden, err := os.ReadFile(filepath.Join("testdata", "default_single.golden"))
	if err != nil {
		t.Fatal(err)
	}
	out := runDefault(t, plot.Single)

	got, want := strings.Split(out, "\n"), strings.Split(string(golden), "\n")
	if len(got) != len(want) {
		t.Fatalf("want %d lines, got %d:\n%s", len(want), len(got), out)
	}
	for n := range want {
		if !sameLine(got[n], want[n]) {
			t.Fatalf("line %d:\n got %q\nwant %q", n+1, got[n], want[n])
		}
	}

	if again := runDefault(t, plot.Single); again != out {
		t.Fatal("repeated run produced different output")
	}
}

func TestRunner_ConcurrentCloseRunsOnce(t *testing.T) {
	cs := &captureSink{}
	r := newTestRunner(t, &fakeTransform{}, cs)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
		}()
	}
	wg.Wait()
	if cs.closed != 1 {
		t.Fatalf("sink closed %d times", cs.closed)
	}
}

func TestCompile_DualFromYAML(t *testing.T) {
	dir := t.TempDir()
	pipe := `schema_version: v1
source: { kind: index, driver: range, config: source.yml }
transformers: [{ name: cosine, type: inproc, timeout_ms: 50 }]
sinks: [stdout]
sink_configs:
  stdout: { variant: dual, diagnostics: false }
`
	if err := os.WriteFile(filepath.Join(dir, "pipeline.yml"), []byte(pipe), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "source.yml"), []byte("first: 1\nlast: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() {
		r, err := Compile(filepath.Join(dir, "pipeline.yml"))
		if err != nil {
			t.Errorf("Compile: %v", err)
			return
		}
		if err := r.Run(context.Background()); err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	want := strings.Join([]string{
		"Ints",
		"(1, " + plot.FormatFloat(cosine.At(1).X) + ")",
		"(2, " + plot.FormatFloat(cosine.At(2).X) + ")",
		"(3, " + plot.FormatFloat(cosine.At(3).X) + ")",
		"",
		"Doubles",
		"(" + plot.FormatFloat(cosine.At(1).X) + ", " + plot.FormatFloat(cosine.At(1).Y) + ")",
		"(" + plot.FormatFloat(cosine.At(2).X) + ", " + plot.FormatFloat(cosine.At(2).Y) + ")",
		"(" + plot.FormatFloat(cosine.At(3).X) + ", " + plot.FormatFloat(cosine.At(3).Y) + ")",
		"",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("want\n%q\ngot\n%q", want, out)
	}
}

func TestCompile_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"source.yml":  "source: { kind: kafka }\n",
		"driver.yml":  "source: { driver: nope }\n",
		"type.yml":    "transformers: [{ name: x, type: stdio }]\n",
		"grpc.yml":    "transformers: [{ name: x, type: grpc }]\n",
		"sink.yml":    "sinks: [nope]\n",
		"kafka.yml":   "sinks: [kafka]\n",
		"variant.yml": "sink_configs: { stdout: { variant: triple } }\n",
	}
	for name, body := range cases {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Compile(p); err == nil {
			t.Fatalf("%s: expected compile error", name)
		}
	}
}

func TestCompile_RemoteGRPCStage(t *testing.T) {
	srv, err := transport.StartServer(0)
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	go func() { _ = srv.Serve() }()
	defer srv.Stop()

	port := srv.Addr().(*net.TCPAddr).Port
	dir := t.TempDir()
	pipe := fmt.Sprintf(`transformers:
  - name: remote
    type: grpc
    address: localhost:%d
    timeout_ms: 2000
    retry_policy: { attempts: 2, backoff_ms: 20 }
sink_configs:
  stdout: { diagnostics: false }
`, port)
	path := filepath.Join(dir, "pipeline.yml")
	if err := os.WriteFile(path, []byte(pipe), 0o644); err != nil {
		t.Fatal(err)
	}

	var local strings.Builder
	pts, _ := cosine.Iterate(cosine.DefaultRange)
	p := plot.NewPlotter(plot.Single)
	for _, pt := range pts {
		p.Add(pt)
	}
	_ = p.Flush(&local)

	out := captureStdout(t, func() {
		r, err := Compile(path)
		if err != nil {
			t.Errorf("Compile: %v", err)
			return
		}
		if err := r.Run(context.Background()); err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	if out != local.String() {
		t.Fatalf("remote run differs from local series:\n%q\n%q", out, local.String())
	}
}
