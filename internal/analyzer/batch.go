package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/trentbecknell/saucebox/internal/decoder"
	"github.com/trentbecknell/saucebox/internal/report"
	"github.com/trentbecknell/saucebox/internal/suggest"
	"github.com/trentbecknell/saucebox/internal/types"
)

// Batch runs the decode → extract → suggest → format pipeline over a set
// of files. Each file is an independent invocation; workers share nothing
// but the jobs channel.
type Batch struct {
	config   *types.AnalyzerConfig
	registry *decoder.Registry
}

// NewBatch returns a batch runner for the given config.
func NewBatch(config *types.AnalyzerConfig) *Batch {
	return &Batch{
		config:   config,
		registry: decoder.NewRegistry(),
	}
}

// CollectFiles walks each argument and gathers paths with a supported
// extension. A plain file argument is kept as-is so the caller gets a
// clear decode error for unsupported formats instead of silence.
func (b *Batch) CollectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", types.ErrNotFound, arg)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			if b.registry.Supported(strings.ToLower(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// Run analyzes every file and prints each result as it completes,
// followed by a summary. It returns an error when any file failed, so
// the command surface can exit non-zero.
func (b *Batch) Run(files []string) error {
	var bar *progressbar.ProgressBar
	if !b.config.Quiet && !b.config.JSONOutput && len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("analyzing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
		)
	}

	workers := b.config.Concurrency
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string, len(files))
	results := make(chan *types.AnalysisResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- b.AnalyzeFile(path, "")
				if bar != nil {
					bar.Add(1)
				}
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []*types.AnalysisResult
	for res := range results {
		all = append(all, res)
		b.output(res)
	}

	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if !b.config.Quiet && !b.config.JSONOutput && len(all) > 1 {
		b.printSummary(all)
	}

	for _, res := range all {
		if res.Status == "ERROR" {
			return fmt.Errorf("%d of %d files failed", countErrors(all), len(all))
		}
	}
	return nil
}

// AnalyzeFile runs the full pipeline on a single file. Errors are folded
// into the result rather than returned, so batch output stays uniform.
func (b *Batch) AnalyzeFile(path, label string) *types.AnalysisResult {
	result := &types.AnalysisResult{
		FilePath: path,
		Label:    label,
		Status:   "ERROR",
	}

	buf, format, err := b.registry.DecodeFile(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Format = format

	features, err := Extract(buf, b.config.Bands)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Features = features

	s := suggest.Suggest(features)
	result.Suggestion = &s
	result.Status = "OK"
	return result
}

func (b *Batch) output(res *types.AnalysisResult) {
	if b.config.JSONOutput {
		line, err := report.JSON(res)
		if err != nil {
			fmt.Fprintf(os.Stderr, "encoding result for %s: %v\n", res.FilePath, err)
			return
		}
		fmt.Println(line)
		return
	}

	if res.Status == "ERROR" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", res.FilePath, res.Error)
		return
	}
	if b.config.Quiet {
		return
	}
	fmt.Print(report.Text(res, b.config.Verbose))
}

func (b *Batch) printSummary(results []*types.AnalysisResult) {
	ok := 0
	needsWork := 0
	failed := 0
	for _, res := range results {
		switch {
		case res.Status == "ERROR":
			failed++
		case res.Suggestion != nil && res.Suggestion.OverallAssessment == types.AssessmentWellBalanced:
			ok++
		default:
			needsWork++
		}
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Files analyzed:   %d\n", len(results))
	fmt.Printf("Well balanced:    %d\n", ok)
	fmt.Printf("Need processing:  %d\n", needsWork)
	if failed > 0 {
		fmt.Printf("Failed:           %d\n", failed)
	}
}

func countErrors(results []*types.AnalysisResult) int {
	n := 0
	for _, res := range results {
		if res.Status == "ERROR" {
			n++
		}
	}
	return n
}
