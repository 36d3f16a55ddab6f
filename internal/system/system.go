package system

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits raises the open file limit for batch runs.
func InitResourceLimits(logger *slog.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("Не удалось получить лимит файлов", "error", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		logger.Warn("Не удалось установить лимит файлов", "error", err)
		return
	}
	logger.Debug("Системный лимит открытых файлов увеличен", "limit", rLimit.Cur)
}

// FindLatestAnimation returns the most recently modified *.json file of dir.
func FindLatestAnimation(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".json") {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов анимации", dir)
	}
	return latestFile, nil
}

// MemoryStats is the resource usage of the running process.
type MemoryStats struct {
	RSS        uint64
	VMS        uint64
	CPUPercent float64
}

// MemoryUsage samples the current process.
func MemoryUsage() (MemoryStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return MemoryStats{}, err
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return MemoryStats{}, err
	}
	stats := MemoryStats{RSS: mi.RSS, VMS: mi.VMS}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats, nil
}

// FormatBytes renders a byte count in MiB.
func FormatBytes(n uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
}
