package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// A4 in inches, as expected by Page.printToPDF.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
)

// ChromePrinter prints HTML with a headless Chrome started per call.
type ChromePrinter struct {
	allocatorOpts []chromedp.ExecAllocatorOption
	logger        *zap.Logger
}

func NewChromePrinter(logger *zap.Logger, extra ...chromedp.ExecAllocatorOption) *ChromePrinter {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.NoSandbox, chromedp.DisableGPU)
	opts = append(opts, extra...)
	return &ChromePrinter{allocatorOpts: opts, logger: logger}
}

func (p *ChromePrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "inspection-report-*.html")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(tmpPath)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, p.allocatorOpts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(absPath)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome: %w", err)
	}

	p.logger.Debug("PDF impresso", zap.Int("bytes", len(pdf)))
	return pdf, nil
}
