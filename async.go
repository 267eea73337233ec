package css

import (
	"context"
	"sync"

	"github.com/csscore/css/ast"
	"github.com/csscore/css/parser"
	"github.com/csscore/css/scanner"
	"github.com/csscore/css/source"
)

// AsyncHandle wraps a single stylesheet parse that starts at most once: the
// one suspension point is the source's PrefetchAll, after which parsing
// runs synchronously to completion. Calling Run again on a handle that has
// already started returns the same result without reparsing, matching the
// single-latch guarantee spec §5 requires of the asynchronous entry point.
type AsyncHandle struct {
	once  sync.Once
	sheet *ast.Stylesheet
	err   error

	src source.TextSource
	cfg Config
}

// NewAsyncHandle returns a handle that will parse src on its first Run.
func NewAsyncHandle(src source.TextSource, cfg Config) *AsyncHandle {
	return &AsyncHandle{src: src, cfg: cfg}
}

// Run prefetches the source under ctx and, once that succeeds, parses it
// synchronously. If ctx is canceled before PrefetchAll returns, Run returns
// the context's error and no partial stylesheet; cancellation observed
// after that point has no effect and the parse runs to Eof.
func (h *AsyncHandle) Run(ctx context.Context) (*ast.Stylesheet, error) {
	h.once.Do(func() {
		h.cfg.applyEncoding(h.src)
		if err := h.src.PrefetchAll(ctx); err != nil {
			h.err = err
			return
		}
		errs := h.cfg.newSink()
		sc := scanner.New(h.src, errs)
		p := parser.New(sc, errs, h.cfg.propertyFactory(), h.cfg.parserOptions())
		h.sheet = p.ParseStylesheet()
	})
	return h.sheet, h.err
}

// ParseStylesheetAsync is the one-shot convenience wrapper around
// NewAsyncHandle().Run(ctx) for callers that don't need to hold onto the
// handle across calls.
func ParseStylesheetAsync(ctx context.Context, src source.TextSource, cfg Config) (*ast.Stylesheet, error) {
	return NewAsyncHandle(src, cfg).Run(ctx)
}
