package pdfnodes

import (
	"context"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// instanceTimeout bounds how long a worker waits for a free pdfium instance.
const instanceTimeout = 30 * time.Second

// ParseFiles parses several PDFs concurrently, each on its own instance from
// pool. At most config.Workers documents are in flight; zero means one per
// path. Results keep the order of paths. The first failure cancels the
// documents that have not started yet and is returned.
func ParseFiles(ctx context.Context, pool pdfium.Pool, paths []string, config Config, opts ...Option) ([]*ParsedDoc, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	// Build the tokenizer once so every worker shares it.
	tokenizer, err := config.NewTokenizer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tokenizer")
	}
	opts = append([]Option{WithTokenizer(tokenizer)}, opts...)

	docs := make([]*ParsedDoc, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if config.Workers > 0 {
		g.SetLimit(config.Workers)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			instance, err := pool.GetInstance(instanceTimeout)
			if err != nil {
				return errors.Wrapf(err, "failed to get pdfium instance for %s", path)
			}
			defer instance.Close()

			parser, err := NewParserWithConfig(instance, config, opts...)
			if err != nil {
				return err
			}

			doc, err := parser.ParseFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to parse %s", path)
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
