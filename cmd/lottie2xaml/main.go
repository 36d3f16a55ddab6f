package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/ivlev/lottie2xaml/internal/config"
	"github.com/ivlev/lottie2xaml/internal/engine"
	"github.com/ivlev/lottie2xaml/internal/source"
	"github.com/ivlev/lottie2xaml/internal/system"
)

// BuildVersion is set at link time.
var BuildVersion = "dev"

func main() {
	inputPtr := flag.String("input", "", "Путь к файлу Lottie (JSON) или папке с ними (по умолчанию: самый свежий файл в input/lottie/)")
	outputPtr := flag.String("output", "", "Путь к XAML (для папки: каталог результатов; по умолчанию output/)")
	templatePtr := flag.String("template", "", "Ключ ControlTemplate: оборачивает результат в ResourceDictionary")
	repeatPtr := flag.String("repeat", "", "RepeatBehavior анимации (например, Forever или 3x)")
	debugPtr := flag.Bool("debug", false, "Печатать структуру слоев и фигур")
	outlinePtr := flag.String("outline", "", "Сохранить структуру композиции в YAML")
	configPtr := flag.String("config", "", "Профиль настроек в YAML")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки (для пакетной обработки)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности и записать benchmark.log")
	logLevelPtr := flag.String("log-level", "info", "Уровень логов: debug, info, warn, error")
	logFormatPtr := flag.String("log-format", "text", "Формат логов: text, json")
	paintScopePtr := flag.String("paint-scope", "adjacent", "Область действия заливок: adjacent, cumulative")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Использование: %s [флаги] [input.json [output.xaml]]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg := &config.Config{
		InputPath:    *inputPtr,
		OutputPath:   *outputPtr,
		Template:     *templatePtr,
		Repeat:       *repeatPtr,
		Debug:        *debugPtr,
		OutlinePath:  *outlinePtr,
		Workers:      *workersPtr,
		ShowStats:    *statsPtr,
		BuildVersion: BuildVersion,
		LogLevel:     *logLevelPtr,
		LogFormat:    *logFormatPtr,
		PaintScope:   *paintScopePtr,
	}

	args := flag.Args()
	if len(args) > 0 && !explicit["input"] {
		cfg.InputPath = args[0]
		explicit["input"] = true
	}
	if len(args) > 1 && !explicit["output"] {
		cfg.OutputPath = args[1]
		explicit["output"] = true
	}

	if *configPtr != "" {
		profile, err := config.LoadProfile(*configPtr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Ошибка профиля: %v\n", err)
			os.Exit(1)
		}
		profile.Apply(cfg, explicit)
	}
	if cfg.Debug && !explicit["log-level"] {
		cfg.LogLevel = "debug"
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	system.InitResourceLimits(logger)

	if cfg.InputPath == "" {
		if err := os.MkdirAll("input/lottie", 0755); err != nil {
			logger.Warn("Не удалось создать input/lottie", "error", err)
		}
		latest, err := system.FindLatestAnimation("input/lottie")
		if err != nil {
			fmt.Fprintf(os.Stderr, "[-] Ошибка: %v. Положите файл анимации в input/lottie/\n", err)
			os.Exit(1)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	src, err := source.New(cfg.InputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка инициализации источника: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg, src, logger)
	results, err := project.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка проекта: %v\n", err)
		stop()
		os.Exit(1)
	}

	if len(results) == 1 {
		fmt.Printf("[+++] Успех! Результат: %s\n", results[0].Output)
		return
	}
	fmt.Printf("[+++] Успех! Файлов: %d\n", len(results))
}

// newLogger builds a logger writing to w in the given level and format.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
