package internal

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/recipe"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// Processor applies a recipe to every image in a directory using a pool of
// workers.
type Processor struct {
	startTime time.Time
	endTime   time.Time
	inputDir  string
	outputDir string
	poolSize  int
	maxJobs   int
	jobs      chan string
	results   chan error
	files     []string
	recipe    *recipe.Recipe
	format    string
}

// NewProcessor lists the images in inputDir. An empty format keeps each
// input's own format.
func NewProcessor(inputDir, outputDir string, poolSize int, rec *recipe.Recipe, format string) (*Processor, error) {
	if poolSize < 1 {
		return nil, errors.New("pool size must be at least 1")
	}
	if rec == nil {
		return nil, errors.New("no recipe supplied")
	}
	if format != "" {
		f, err := codec.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		if f.Animated() {
			return nil, fmt.Errorf("batch output cannot be %v", f)
		}
	}
	startTime := time.Now()

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", inputDir, err)
	}

	files := make([]string, 0, len(entries))
	claimed := make(map[string]string, len(entries))
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !entry.Type().IsRegular() || !slices.Contains(imageExtensions, ext) {
			continue
		}
		_, output := outputName(entry.Name(), format)
		if first, ok := claimed[output]; ok {
			log.Printf("Skipping %s: %s already writes %s", entry.Name(), first, output)
			continue
		}
		claimed[output] = entry.Name()
		files = append(files, entry.Name())
	}

	log.Printf("Directory %s contains %d images", inputDir, len(files))
	if len(files) == 0 {
		return nil, errors.New("no images to process")
	}

	return &Processor{
		startTime: startTime,
		inputDir:  inputDir,
		outputDir: outputDir,
		poolSize:  poolSize,
		maxJobs:   -1,
		jobs:      make(chan string),
		results:   make(chan error),
		files:     files,
		recipe:    rec,
		format:    format,
	}, nil
}

// DispatchJobs sends files to the jobs channel for processing by workers.
// When maxJobs is greater than zero, it limits the number of jobs dispatched,
// hence set to -1 to dispatch all jobs.
func (p *Processor) DispatchJobs() {

	go func() {
		for n, file := range p.files {
			if p.maxJobs > 0 && n >= p.maxJobs {
				break
			}
			p.jobs <- file
		}
		close(p.jobs)
	}()
}

func (p *Processor) StartWorkers() {
	log.Printf("Starting recipe %q with pool size: %d", p.recipe.Name, p.poolSize)

	for i := range p.poolSize {
		go p.worker(i)
	}
}

func (p *Processor) worker(i int) {
	log.Printf("Worker %d started", i)
	for file := range p.jobs {
		p.results <- p.processFile(file)
	}
	log.Printf("Worker %d finished", i)
}

// outputName returns the format and file name that input name is written
// as. format has already been validated.
func outputName(name, format string) (codec.Format, string) {
	f := codec.FormatFromPath(name)
	if format != "" {
		f, _ = codec.ParseFormat(format)
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return f, base + filepath.Ext(f.Filename())
}

func (p *Processor) processFile(name string) error {
	format, output := outputName(name, p.format)
	filename := filepath.Join(p.outputDir, output)

	// if the file already exists, skip processing
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	img, err := codec.Open(filepath.Join(p.inputDir, name))
	if err != nil {
		return err
	}

	out, err := p.recipe.Apply(img)
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", name, err)
	}

	err = WriteAtomic(filename, func(w io.Writer) error {
		return codec.Encode(w, out, format)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	log.Printf("Wrote %s (%dx%d)", filename, out.Width(), out.Height())
	return nil
}

func (p *Processor) Wait() []error {
	waitFor := p.maxJobs
	if waitFor < 0 || waitFor > len(p.files) {
		waitFor = len(p.files)
	}
	log.Printf("Waiting for %d images to be processed", waitFor)

	errors := make([]error, 0, 10)
	for range waitFor {
		err := <-p.results
		if err != nil {
			errors = append(errors, err)
		}
	}
	p.endTime = time.Now()
	elapsed := p.endTime.Sub(p.startTime)
	log.Printf("All images processed in %s (errors=%d)", elapsed, len(errors))
	return errors
}

// Run processes every image and returns the failures.
func (p *Processor) Run() []error {
	p.StartWorkers()
	p.DispatchJobs()
	return p.Wait()
}
