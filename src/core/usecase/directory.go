package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"regform/src/core/domain"
	"regform/src/core/ports"
)

// Directory is the in-memory list of countries for the session lifetime.
// It starts empty and is replaced as a whole when a load succeeds.
type Directory struct {
	mu       sync.RWMutex
	records  []domain.CountryRecord
	loadedAt time.Time
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{}
}

// Replace swaps in a new list of records.
func (d *Directory) Replace(records []domain.CountryRecord) {
	next := make([]domain.CountryRecord, len(records))
	copy(next, records)

	d.mu.Lock()
	d.records = next
	d.loadedAt = time.Now()
	d.mu.Unlock()
}

// Records returns a copy of the records in provider order.
func (d *Directory) Records() []domain.CountryRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.CountryRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Names returns the country names in provider order.
func (d *Directory) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.records))
	for i, r := range d.records {
		out[i] = r.Name
	}
	return out
}

// Lookup finds the first record whose name equals name exactly.
func (d *Directory) Lookup(name string) (domain.CountryRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.records {
		if r.Name == name {
			return r, true
		}
	}
	return domain.CountryRecord{}, false
}

// Len returns the number of records.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}

// LoadedAt returns when the directory was last replaced, or the zero time.
func (d *Directory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

// DirectoryLoader fetches the country list once and merges it into a Directory.
type DirectoryLoader struct {
	provider ports.CountryProvider
	metrics  ports.FormMetrics
	log      *slog.Logger
}

// NewDirectoryLoader creates a loader. metrics may be nil.
func NewDirectoryLoader(provider ports.CountryProvider, metrics ports.FormMetrics, log *slog.Logger) *DirectoryLoader {
	return &DirectoryLoader{
		provider: provider,
		metrics:  metrics,
		log:      log,
	}
}

// Fetch performs a single read from the provider. Failures come back as
// *domain.DirectoryLoadError.
func (l *DirectoryLoader) Fetch(ctx context.Context) ([]domain.CountryRecord, error) {
	records, err := l.provider.FetchCountries(ctx)
	if err != nil {
		return nil, domain.NewDirectoryLoadError(err)
	}
	return records, nil
}

// LoadTask is a directory load running in the background.
type LoadTask struct {
	done   chan struct{}
	cancel context.CancelFunc
	err    error
	count  int
}

// Done is closed once the load has finished, successfully or not.
func (t *LoadTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the load finishes and returns its error.
func (t *LoadTask) Wait() error {
	<-t.done
	return t.err
}

// Count is the number of records merged. Valid after Done is closed.
func (t *LoadTask) Count() int {
	<-t.done
	return t.count
}

// Cancel aborts an in-flight load. The directory is left untouched.
func (t *LoadTask) Cancel() {
	t.cancel()
}

// Start fetches in the background and replaces dir on success. On failure the
// error is logged and dir is left as it was; there is no retry. Start never
// blocks the caller.
func (l *DirectoryLoader) Start(ctx context.Context, dir *Directory) *LoadTask {
	ctx, cancel := context.WithCancel(ctx)
	task := &LoadTask{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(task.done)
		defer cancel()

		records, err := l.Fetch(ctx)
		if err != nil {
			task.err = err
			l.observe(err, 0)
			l.log.Error("country directory load failed", "error", err)
			return
		}

		dir.Replace(records)
		task.count = len(records)
		l.observe(nil, len(records))
		l.log.Info("country directory loaded", "count", len(records))
	}()

	return task
}

func (l *DirectoryLoader) observe(err error, size int) {
	if l.metrics != nil {
		l.metrics.ObserveDirectoryLoad(err, size)
	}
}
