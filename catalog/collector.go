package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPFetcher fetches pages with a plain GET.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Required
	request.Header.Add("X-Requested-With", "XMLHttpRequest")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		return nil, fmt.Errorf("GET %v: %v", url, response.Status)
	}
	return response.Body, nil
}

type Options struct {
	Workers int
	// PrerequisiteURL takes the course code, e.g. "https://catalog.example.edu/search/?P=%s".
	PrerequisiteURL string
	// SeatsURL takes the term code and the subject, in that order.
	SeatsURL string
	TermCode string
}

// Collector fetches catalog pages with at most Workers requests in flight.
// A page that cannot be fetched or read is logged and skipped.
type Collector struct {
	fetcher Fetcher
	options Options
	logger  *zap.Logger
}

func NewCollector(fetcher Fetcher, options Options, logger *zap.Logger) *Collector {
	if options.Workers < 1 {
		options.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{fetcher: fetcher, options: options, logger: logger}
}

// Prerequisites returns the prerequisite text of every course whose page
// could be read. Courses without a prerequisite paragraph map to "".
func (c *Collector) Prerequisites(ctx context.Context, codes []string) (map[string]string, error) {
	texts := make([]*string, len(codes))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.options.Workers)
	for i, code := range codes {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			text, err := c.prerequisite(ctx, code)
			if err != nil {
				c.logger.Warn("Unable to read prerequisites", zap.String("course", code), zap.Error(err))
				return nil
			}
			texts[i] = &text
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]string, len(codes))
	for i, code := range codes {
		if texts[i] != nil {
			result[code] = *texts[i]
		}
	}
	return result, nil
}

func (c *Collector) prerequisite(ctx context.Context, code string) (string, error) {
	body, err := c.fetcher.Fetch(ctx, fmt.Sprintf(c.options.PrerequisiteURL, url.QueryEscape(code)))
	if err != nil {
		return "", err
	}
	defer body.Close()

	return ExtractPrerequisite(body)
}

// Seats returns the de-duplicated section rows of every subject that could be read.
func (c *Collector) Seats(ctx context.Context, subjects []string) ([]Seat, error) {
	batches := make([][]Seat, len(subjects))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.options.Workers)
	for i, subject := range subjects {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seats, err := c.seats(ctx, subject)
			if err != nil {
				c.logger.Warn("Unable to read seats", zap.String("subject", subject), zap.Error(err))
				return nil
			}
			batches[i] = seats
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return Deduplicate(lo.Flatten(batches)), nil
}

func (c *Collector) seats(ctx context.Context, subject string) ([]Seat, error) {
	address := fmt.Sprintf(c.options.SeatsURL, url.QueryEscape(c.options.TermCode), url.QueryEscape(subject))
	body, err := c.fetcher.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return ExtractSeats(subject, body)
}
