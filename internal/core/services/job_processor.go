package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
	"github.com/basilwick/chunkline/internal/core/ports/driving"
	"github.com/basilwick/chunkline/internal/logger"
)

// Ensure JobProcessor implements the interface.
var _ driving.JobProcessor = (*JobProcessor)(nil)

// DefaultMaxContentSize is the byte threshold above which an item is
// pre-split on double-newline boundaries before chunking.
const DefaultMaxContentSize = 10 * 1024 * 1024

// DefaultSinkBatchSize is the number of chunks streamed to the sink per
// POST.
const DefaultSinkBatchSize = 50

// JobProcessor owns the job registry and a semaphore-bounded worker
// pool, grounded on the teacher's SyncOrchestrator (process-local
// sync.RWMutex-guarded status map, per-job lock, "log and count, never
// fail the job" per-item error policy) and its Scheduler (WaitGroup
// tracking of in-flight goroutines, cooperative shutdown via a stop
// channel).
type JobProcessor struct {
	router  *Router
	sink    driven.Sink
	profile driving.ProfileStore

	maxConcurrent  int
	maxContentSize int
	sinkBatchSize  int

	sem chan struct{}

	mu       sync.RWMutex
	jobs     map[string]*jobEntry
	shutdown chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

type jobEntry struct {
	mu  sync.Mutex
	job domain.Job
	cfg domain.ChunkConfig
}

// NewJobProcessor wires a processor with maxConcurrent permits.
func NewJobProcessor(router *Router, sink driven.Sink, profile driving.ProfileStore, maxConcurrent int) *JobProcessor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &JobProcessor{
		router:         router,
		sink:           sink,
		profile:        profile,
		maxConcurrent:  maxConcurrent,
		maxContentSize: DefaultMaxContentSize,
		sinkBatchSize:  DefaultSinkBatchSize,
		sem:            make(chan struct{}, maxConcurrent),
		jobs:           make(map[string]*jobEntry),
		shutdown:       make(chan struct{}),
	}
}

// Submit registers a new job and queues a worker task for it. Returns
// accepted=false (no job created) if items is empty.
func (p *JobProcessor) Submit(ctx context.Context, sourceID string, sourceKind domain.SourceKind, items []domain.SourceItem) (string, bool, error) {
	if len(items) == 0 {
		return "", false, fmt.Errorf("%w: items must not be empty", domain.ErrInvalidRequest)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", false, fmt.Errorf("%w: processor is shutting down", domain.ErrInvalidRequest)
	}

	id := uuid.NewString()
	entry := &jobEntry{
		job: domain.Job{
			ID:         id,
			Status:     domain.JobStatusPending,
			TotalItems: len(items),
			CreatedAt:  time.Now(),
		},
		cfg: p.profile.Active().Config,
	}
	p.jobs[id] = entry
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx, entry, sourceID, sourceKind, items)

	return id, true, nil
}

// Status returns a snapshot of the job record.
func (p *JobProcessor) Status(_ context.Context, jobID string) (domain.Job, error) {
	p.mu.RLock()
	entry, ok := p.jobs[jobID]
	p.mu.RUnlock()
	if !ok {
		return domain.Job{}, fmt.Errorf("%w: job %q", domain.ErrUnknownJob, jobID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.job.Snapshot(), nil
}

// Shutdown stops accepting new submissions and waits for in-flight jobs
// to finish their current item before returning (cooperative shutdown).
// A running job delivers the chunks of the items it finished and stops
// without reaching a terminal status; a job still waiting for a worker
// permit is dropped and stays pending. No new jobs are accepted after
// this call begins.
func (p *JobProcessor) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.shutdown)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *JobProcessor) run(ctx context.Context, entry *jobEntry, sourceID string, sourceKind domain.SourceKind, items []domain.SourceItem) {
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-p.shutdown:
		return
	}
	defer func() { <-p.sem }()

	defer func() {
		if r := recover(); r != nil {
			entry.mu.Lock()
			entry.job.Status = domain.JobStatusFailed
			entry.job.Error = fmt.Sprintf("%v", r)
			entry.job.CompletedAt = time.Now()
			entry.mu.Unlock()
			logger.Warn("job %s: recovered from panic: %v", entry.job.ID, r)
		}
	}()

	entry.mu.Lock()
	entry.job.Status = domain.JobStatusRunning
	entry.job.StartedAt = time.Now()
	cfg := entry.cfg
	entry.mu.Unlock()

	var pendingChunks []domain.Chunk

	for _, item := range items {
		select {
		case <-p.shutdown:
			if len(pendingChunks) > 0 {
				p.deliver(ctx, entry, pendingChunks)
			}
			return
		default:
		}

		item.SourceID = sourceID
		if item.SourceKind == "" {
			item.SourceKind = sourceKind
		}

		subItems := splitOversize(item, p.maxContentSize)

		for _, sub := range subItems {
			chunker := p.router.Route(sub)

			chunks, err := chunker.Chunk(ctx, sub, cfg)
			if errors.Is(err, domain.ErrParse) {
				logger.Warn("job %s: item %s: chunker %s could not parse content, falling back to recursive: %v", entry.job.ID, sub.ID, chunker.Name(), err)
				chunker = p.router.recursive
				chunks, err = chunker.Chunk(ctx, sub, cfg)
				for i := range chunks {
					chunks[i].Metadata = domain.WithMetadata(chunks[i].Metadata, domain.MetaCodeFallback, true)
				}
			}
			if err != nil {
				logger.Warn("job %s: item %s: chunker %s failed: %v", entry.job.ID, sub.ID, chunker.Name(), err)
				entry.mu.Lock()
				entry.job.ItemErrors++
				entry.mu.Unlock()
				continue
			}

			pendingChunks = append(pendingChunks, chunks...)
			for len(pendingChunks) >= p.sinkBatchSize {
				batch := pendingChunks[:p.sinkBatchSize]
				pendingChunks = pendingChunks[p.sinkBatchSize:]
				p.deliver(ctx, entry, batch)
			}
		}

		entry.mu.Lock()
		entry.job.ProcessedItems++
		entry.mu.Unlock()
	}

	if len(pendingChunks) > 0 {
		p.deliver(ctx, entry, pendingChunks)
	}

	entry.mu.Lock()
	if entry.job.Status != domain.JobStatusFailed {
		entry.job.Status = domain.JobStatusCompleted
		entry.job.CompletedAt = time.Now()
	}
	entry.mu.Unlock()
}

func (p *JobProcessor) deliver(ctx context.Context, entry *jobEntry, batch []domain.Chunk) {
	if err := p.sink.Deliver(ctx, batch); err != nil {
		logger.Warn("job %s: sink delivery failed for batch of %d: %v", entry.job.ID, len(batch), err)
		entry.mu.Lock()
		entry.job.SinkErrors++
		entry.mu.Unlock()
		return
	}
	entry.mu.Lock()
	entry.job.ChunksCreated += len(batch)
	entry.mu.Unlock()
}

// splitOversize pre-splits an item whose content exceeds maxSize on
// double-newline boundaries into sub-items, preserving cumulative byte
// offsets via metadata so downstream chunk start/end indices remain
// interpretable against the sub-item's own content.
func splitOversize(item domain.SourceItem, maxSize int) []domain.SourceItem {
	if len(item.Content) <= maxSize {
		return []domain.SourceItem{item}
	}

	parts := strings.Split(item.Content, "\n\n")
	var out []domain.SourceItem
	var builder strings.Builder
	offset := 0

	flush := func() {
		if builder.Len() == 0 {
			return
		}
		sub := item
		sub.Content = builder.String()
		sub.Metadata = domain.WithMetadata(domain.CloneMetadata(item.Metadata), "source_byte_offset", offset)
		out = append(out, sub)
		offset += builder.Len() + len("\n\n") // the separator dropped at the boundary
		builder.Reset()
	}

	for _, part := range parts {
		if builder.Len() > 0 && builder.Len()+len(part)+2 > maxSize {
			flush()
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(part)
	}
	flush()

	if len(out) == 0 {
		return []domain.SourceItem{item}
	}
	return out
}
