package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"cortex/internal/chunker"
	"cortex/internal/store"
	"cortex/internal/walker"
)

// defaultBatchSize is how many documents go to the gateway per upsert. Purely
// a throughput knob: the final stored state is identical for any batch size.
const defaultBatchSize = 100

// Stats reports the outcome of one indexing run. Per-file failures never
// abort the run; they are counted here instead.
type Stats struct {
	FilesTotal   int
	FilesIndexed int
	FilesSkipped int
	FilesFailed  int
	ChunksTotal  int
	ASTChunks    int
	SimpleChunks int
}

// fileWork is a file that needs to be (re-)indexed.
type fileWork struct {
	info walker.FileInfo
	hash string
	src  []byte
}

// fileResult is the typed per-file outcome flowing into the summary.
type fileResult struct {
	work fileWork
	docs []Document
	ast  int
	err  error
}

// FileHashes is the incremental-indexing surface of the store: files whose
// content hash is unchanged are skipped.
type FileHashes interface {
	GetFileHash(path string) (string, error)
	SetFileHash(path, hash string) error
}

func runPipeline(
	ctx context.Context,
	root string,
	gw store.Gateway,
	hashes FileHashes,
	astChunker *chunker.ASTChunker,
	allowedExts map[string]bool,
	numWorkers, batchSize int,
) (*Stats, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	var stats Stats
	var filesTotal, filesSkipped atomic.Int64

	// Stage 1: walk the tree.
	fileCh, walkErrCh := walker.Walk(root, allowedExts)

	// Stage 2: read + hash, skipping unchanged files (N workers).
	workCh := make(chan fileWork, numWorkers)
	var hashWg sync.WaitGroup
	for range numWorkers {
		hashWg.Add(1)
		go func() {
			defer hashWg.Done()
			for fi := range fileCh {
				filesTotal.Add(1)
				src, err := os.ReadFile(fi.Path)
				if err != nil {
					continue
				}
				h := sha256.Sum256(src)
				hash := hex.EncodeToString(h[:])

				if hashes != nil {
					existing, err := hashes.GetFileHash(fi.RelPath)
					if err == nil && existing == hash {
						filesSkipped.Add(1)
						continue
					}
				}

				workCh <- fileWork{info: fi, hash: hash, src: src}
			}
		}()
	}
	go func() {
		hashWg.Wait()
		close(workCh)
	}()

	// Stage 3: chunk + assemble (N workers). Each parse uses its own parser
	// instance, so workers share nothing mutable.
	resultCh := make(chan fileResult, numWorkers)
	var chunkWg sync.WaitGroup
	for range numWorkers {
		chunkWg.Add(1)
		go func() {
			defer chunkWg.Done()
			for w := range workCh {
				chunks, err := astChunker.Load(w.info.RelPath, w.src)
				if err != nil {
					resultCh <- fileResult{work: w, err: err}
					continue
				}
				ast := 0
				for _, c := range chunks {
					if c.Meta.Method == chunker.MethodAST {
						ast++
					}
				}
				resultCh <- fileResult{work: w, docs: Assemble(chunks), ast: ast}
			}
		}()
	}
	go func() {
		chunkWg.Wait()
		close(resultCh)
	}()

	// Stage 4: batch-upsert into the gateway (single writer).
	var storeErr error

	var ids []string
	var texts []string
	var metas []chunker.Metadata
	flush := func() error {
		if len(ids) == 0 {
			return nil
		}
		err := gw.Upsert(ctx, ids, texts, metas)
		ids, texts, metas = ids[:0], texts[:0], metas[:0]
		return err
	}

	for r := range resultCh {
		if r.err != nil {
			stats.FilesFailed++
			if errors.Is(r.err, chunker.ErrBinaryFile) {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", r.work.info.RelPath, r.err)
			} else {
				fmt.Fprintf(os.Stderr, "chunking %s failed: %v\n", r.work.info.RelPath, r.err)
			}
			continue
		}
		if storeErr != nil {
			continue // drain remaining results after a gateway failure
		}

		for _, d := range r.docs {
			ids = append(ids, d.ID)
			texts = append(texts, d.Text)
			metas = append(metas, d.Meta)
			if len(ids) >= batchSize {
				if err := flush(); err != nil {
					storeErr = err
				}
			}
		}
		if err := flush(); err != nil {
			storeErr = err
			continue
		}

		if hashes != nil {
			if err := hashes.SetFileHash(r.work.info.RelPath, r.work.hash); err != nil {
				fmt.Fprintf(os.Stderr, "recording hash for %s failed: %v\n", r.work.info.RelPath, err)
			}
		}

		stats.FilesIndexed++
		stats.ChunksTotal += len(r.docs)
		stats.ASTChunks += r.ast
		stats.SimpleChunks += len(r.docs) - r.ast
	}

	if err := <-walkErrCh; err != nil {
		return &stats, fmt.Errorf("walk: %w", err)
	}

	stats.FilesTotal = int(filesTotal.Load())
	stats.FilesSkipped = int(filesSkipped.Load())

	if storeErr != nil {
		return &stats, storeErr
	}
	return &stats, nil
}
