package qsource

import (
	"context"
	"sort"
	"time"

	"github.com/rohmanhakim/geo-analyzer/internal/keyword"
	"github.com/rohmanhakim/geo-analyzer/internal/metadata"
	"go.uber.org/zap"
)

const DefaultTopKeywords = 5

/*
Collector gathers search questions for the highest scored keywords.

Collection Rules
  - Keywords are stably sorted by descending score; the first topN are used
  - The provider is called once per keyword, one call at a time
  - Results are appended in keyword rank order
  - A failing keyword contributes nothing; the others still run
  - A cancelled context stops the batch and returns what was gathered
*/
type Collector struct {
	provider     Provider
	source       Source
	topN         int
	logger       *zap.Logger
	metadataSink metadata.MetadataSink
}

func NewCollector(
	provider Provider,
	source Source,
	topN int,
	logger *zap.Logger,
	metadataSink metadata.MetadataSink,
) Collector {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}
	if source == "" {
		source = SourceGoogle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return Collector{
		provider:     provider,
		source:       source,
		topN:         topN,
		logger:       logger,
		metadataSink: metadataSink,
	}
}

func (c Collector) Collect(ctx context.Context, keywords []keyword.SeedKeyword) []SearchQuestion {
	ranked := make([]keyword.SeedKeyword, len(keywords))
	copy(ranked, keywords)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})
	if len(ranked) > c.topN {
		ranked = ranked[:c.topN]
	}

	var collected []SearchQuestion
	for _, kw := range ranked {
		if ctx.Err() != nil {
			c.logger.Info("question collection cancelled",
				zap.Int("gathered", len(collected)),
				zap.Error(ctx.Err()),
			)
			break
		}

		questions, err := c.provider.Lookup(ctx, kw.Value(), c.source)
		if err != nil {
			c.recordFailure(kw.Value(), err)
			continue
		}
		collected = append(collected, questions...)
	}
	return collected
}

func (c Collector) recordFailure(kw string, err error) {
	c.logger.Warn("question source lookup failed",
		zap.String("keyword", kw),
		zap.String("source", c.source.String()),
		zap.Error(err),
	)
	c.metadataSink.RecordError(
		time.Now(),
		"qsource",
		"Collector.Collect",
		mapProviderErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrKeyword, kw),
			metadata.NewAttr(metadata.AttrSource, c.source.String()),
		},
	)
}
