package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the single source of truth for all file locations used by the
// pipeline, the exporters, the plot renderer, and the viewer.
//
// Directory layout relative to the base directory:
//
//	data/     raw wide-format expression tables (.pcl/.tsv/.txt/.xlsx)
//	reports/  generated tidy and summary CSV/xlsx files
//	plots/    rendered PNG plots
//	logs/     application logs
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	PlotsDir   string
	LogsDir    string

	// Well-known report files.
	TidyCSV        string
	GeneSummaryCSV string
	WorkbookXLSX   string
}

// GetPaths resolves the path layout from configuration. An empty BaseDir
// resolves to the directory containing the executable, so the tools work
// the same whether run from a checkout or an installed location.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}

	return NewPaths(base, cfg), nil
}

// NewPaths builds the layout under an explicit base directory. Tests use
// this with t.TempDir().
func NewPaths(base string, cfg PathsConfig) *Paths {
	join := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(base, dir)
	}

	p := &Paths{
		BaseDir:    base,
		DataDir:    join(cfg.DataDir, "data"),
		ReportsDir: join(cfg.ReportsDir, "reports"),
		PlotsDir:   join(cfg.PlotsDir, "plots"),
		LogsDir:    join(cfg.LogsDir, "logs"),
	}

	p.TidyCSV = filepath.Join(p.ReportsDir, "expression_tidy.csv")
	p.GeneSummaryCSV = filepath.Join(p.ReportsDir, "gene_summary.csv")
	p.WorkbookXLSX = filepath.Join(p.ReportsDir, "expression_workbook.xlsx")

	return p
}

// GetDataPath returns the path of a file inside the data directory.
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// GetReportPath returns the path of a file inside the reports directory.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetPlotPath returns the path of a file inside the plots directory.
func (p *Paths) GetPlotPath(filename string) string {
	return filepath.Join(p.PlotsDir, filename)
}

// GetLogPath returns the path of a file inside the logs directory.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates every directory in the layout.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.PlotsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
