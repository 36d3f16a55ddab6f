package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lottie2xaml/internal/compiler"
	"github.com/ivlev/lottie2xaml/internal/config"
	"github.com/ivlev/lottie2xaml/internal/diag"
	"github.com/ivlev/lottie2xaml/internal/lottie"
	"github.com/ivlev/lottie2xaml/internal/outline"
	"github.com/ivlev/lottie2xaml/internal/scene"
	"github.com/ivlev/lottie2xaml/internal/source"
	"github.com/ivlev/lottie2xaml/internal/system"
)

// Project converts every document of a source.
type Project struct {
	Config *config.Config
	Source source.Source
	Logger *slog.Logger

	// Out receives progress lines, Diag the console diagnostics.
	Out  io.Writer
	Diag io.Writer

	// BenchmarkLog is the file the -stats line is appended to.
	BenchmarkLog string

	mu sync.Mutex
}

// Result is the outcome of one document.
type Result struct {
	Input    string
	Output   string
	Warnings int
	Elapsed  time.Duration
	Err      error
}

func NewProject(cfg *config.Config, src source.Source, logger *slog.Logger) *Project {
	return &Project{
		Config:       cfg,
		Source:       src,
		Logger:       logger,
		Out:          os.Stdout,
		Diag:         os.Stderr,
		BenchmarkLog: "benchmark.log",
	}
}

// Run converts the documents with up to Config.Workers in parallel. A failing
// document does not stop the others; their errors are joined.
func (p *Project) Run(ctx context.Context) ([]Result, error) {
	startTime := time.Now()

	scope, err := compiler.ParsePaintScope(p.Config.PaintScope)
	if err != nil {
		return nil, err
	}

	count := p.Source.Len()
	if count == 0 {
		return nil, fmt.Errorf("источник не содержит файлов анимации")
	}

	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > count {
		workers = count
	}

	fmt.Fprintln(p.Out, "--- [PROJECT: LOTTIE -> XAML] ---")
	fmt.Fprintf(p.Out, "[*] Источник: %s | Файлов: %d | Потоков: %d\n", p.Config.InputPath, count, workers)
	fmt.Fprintln(p.Out, "-----------------------------")

	results := make([]Result, count)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.convert(i, scope)
			if results[i].Err == nil {
				p.printf("[>] Готово: %s (предупреждений: %d)\n", results[i].Output, results[i].Warnings)
			}
			return nil
		})
	}

	errs := []error{g.Wait()}
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}

	if p.Config.ShowStats {
		p.report(results, time.Since(startTime))
	}
	return results, errors.Join(errs...)
}

func (p *Project) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.Out, format, args...)
}

func (p *Project) convert(i int, scope compiler.PaintScope) Result {
	start := time.Now()
	res := Result{Input: p.Source.Path(i), Output: p.outputPath(i)}

	rep := diag.NewReporter(p.sink(i))
	res.Err = p.convertTo(i, res.Output, scope, rep)
	res.Warnings = rep.Warnings()
	res.Elapsed = time.Since(start)
	return res
}

func (p *Project) convertTo(i int, output string, scope compiler.PaintScope, rep *diag.Reporter) error {
	data, err := p.Source.Read(i)
	if err != nil {
		return err
	}
	comp, err := lottie.Decode(data, rep)
	if err != nil {
		return rep.Fail(err)
	}

	opt := Options{PaintScope: scope, AssetDir: p.Source.AssetDir(i)}
	if p.Config.Debug {
		opt.Logger = p.Logger.With("document", filepath.Base(p.Source.Path(i)))
	}
	doc, err := Convert(comp, opt, rep)
	if err != nil {
		return err
	}

	buf := system.GetBuffer()
	defer system.PutBuffer(buf)
	if err := scene.Write(buf, doc, scene.Options{Template: p.Config.Template, Repeat: p.Config.Repeat}); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return err
	}

	if path := p.outlinePath(i); path != "" {
		if err := outline.Write(outline.Build(comp), path); err != nil {
			return fmt.Errorf("ошибка записи структуры: %w", err)
		}
	}
	return nil
}

func (p *Project) sink(i int) diag.Sink {
	name := filepath.Base(p.Source.Path(i))
	if p.Config.LogFormat == "json" {
		return diag.LogSink{Logger: p.Logger.With("document", name)}
	}
	s := &diag.ConsoleSink{W: p.Diag}
	if p.Source.IsBatch() {
		s.Prefix = name
	}
	return s
}

// outputPath is the -output file for a single document, or a file named
// after the document inside the -output directory for a batch.
func (p *Project) outputPath(i int) string {
	name := source.BaseName(p.Source.Path(i)) + ".xaml"
	out := p.Config.OutputPath
	switch {
	case out == "":
		return filepath.Join("output", name)
	case p.Source.IsBatch():
		return filepath.Join(out, name)
	}
	return out
}

func (p *Project) outlinePath(i int) string {
	path := p.Config.OutlinePath
	if path == "" || !p.Source.IsBatch() {
		return path
	}
	return filepath.Join(path, source.BaseName(p.Source.Path(i))+".yaml")
}

func (p *Project) report(results []Result, total time.Duration) {
	var converted, warnings int
	var busy time.Duration
	for _, r := range results {
		if r.Err == nil {
			converted++
		}
		warnings += r.Warnings
		busy += r.Elapsed
	}

	mem, err := system.MemoryUsage()
	if err != nil {
		p.Logger.Warn("Не удалось получить статистику процесса", "error", err)
	}

	fmt.Fprintf(p.Out,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Conversion (sum): %.2fs\n"+
			"Documents: %d/%d\n"+
			"Warnings: %d\n"+
			"Memory (RSS): %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, total.Seconds(), busy.Seconds(), converted, len(results), warnings, system.FormatBytes(mem.RSS),
	)

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Documents: %d | Total: %.2fs | Warnings: %d | RSS: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		len(results),
		total.Seconds(),
		warnings,
		system.FormatBytes(mem.RSS),
	)

	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(p.Out, "[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
		return
	}
	defer f.Close()
	f.WriteString(logEntry)
}
