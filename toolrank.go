// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package toolrank

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/toolrank/catalog"
	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/embed"
	"github.com/poiesic/toolrank/embed/openai"
	"github.com/poiesic/toolrank/rank"
	"github.com/poiesic/toolrank/storage"
	"github.com/poiesic/toolrank/storage/badger"
	"github.com/poiesic/toolrank/trace"
)

// Service ties the catalog, ranker, call log, and optional embedding
// index together behind one handle.
type Service struct {
	backend  *badger.Backend
	callLog  storage.CallLogRepository
	catalog  *catalog.Catalog
	miner    *trace.Miner
	ranker   *rank.Ranker
	embedder embed.Embedder
	index    *embed.NodeIndex
	rankOpts []rank.Option
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	embedConfig *embed.Config
	embedder    embed.Embedder
	rankOpts    []rank.Option
	inMemory    bool
	logger      *slog.Logger
}

// WithEmbedding enables the embedding index using an OpenAI-compatible
// endpoint.
func WithEmbedding(config *embed.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.embedConfig = config
	}
}

// WithEmbedder enables the embedding index with a caller-supplied
// embedder. Takes precedence over WithEmbedding.
func WithEmbedder(embedder embed.Embedder) ServiceOption {
	return func(o *serviceOptions) {
		o.embedder = embedder
	}
}

// WithRankOptions forwards options to the underlying ranker.
func WithRankOptions(opts ...rank.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.rankOpts = append(o.rankOpts, opts...)
	}
}

// WithInMemoryStore keeps the call log in memory instead of on disk.
func WithInMemoryStore() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// NewService opens the call log at filePath and builds a ranker over the
// given tool entries.
func NewService(filePath string, entries []core.ToolEntry, opts ...ServiceOption) (*Service, error) {
	// Apply options
	options := &serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}
	callLog := badger.NewCallLogRepository(backend)

	cat := catalog.New(entries, catalog.WithLogger(options.logger))
	miner := trace.NewMiner(callLog, trace.WithLogger(options.logger))

	rankOpts := append([]rank.Option{
		rank.WithMiner(miner),
		rank.WithLogger(options.logger),
	}, options.rankOpts...)
	ranker, err := rank.NewRanker(cat, rankOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create the embedder if embedding support was requested
	var embedder embed.Embedder
	if options.embedder != nil {
		embedder = options.embedder
	} else if options.embedConfig != nil {
		embedder, err = openai.NewEmbedder(options.embedConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Service{
		backend:  backend,
		callLog:  callLog,
		catalog:  cat,
		miner:    miner,
		ranker:   ranker,
		embedder: embedder,
		rankOpts: rankOpts,
		logger:   options.logger,
	}, nil
}

// BuildEmbeddingIndex embeds every catalog node and wires the resulting
// index into the ranker. Requires an embedder.
func (s *Service) BuildEmbeddingIndex(ctx context.Context, opts ...embed.IndexOption) error {
	if s.embedder == nil {
		return embed.ErrEmbedderRequired
	}

	index, err := embed.BuildNodeIndex(ctx, s.catalog, s.embedder, opts...)
	if err != nil {
		return err
	}

	ranker, err := rank.NewRanker(s.catalog,
		append(s.rankOpts, rank.WithNeighborSearcher(index))...)
	if err != nil {
		return err
	}

	s.index = index
	s.ranker = ranker
	return nil
}

// Search ranks the candidate tools against the query. When an embedding
// index is available and the caller did not supply a query vector, the
// query is embedded first; an embedding failure degrades to a search
// without the embedding signal.
func (s *Service) Search(ctx context.Context, query string, candidates []rank.Candidate, opts rank.Options) ([]core.RankedResult, error) {
	if s.index != nil && len(opts.QueryVector) == 0 && !opts.Ablation.Embedding {
		vector, err := s.embedder.EmbedText(ctx, query)
		if err != nil {
			s.logger.Warn("query embedding failed, searching without it", "err", err)
		} else {
			opts.QueryVector = vector
		}
	}
	return s.ranker.Search(ctx, query, candidates, opts)
}

// LogCall records one tool invocation in the call log.
func (s *Service) LogCall(ctx context.Context, session, tool string) error {
	event := &core.CallEvent{
		Session:   session,
		Tool:      tool,
		Timestamp: time.Now(),
	}
	_, err := s.callLog.AppendCalls(ctx, event)
	return err
}

// LogCalls records a batch of call events.
func (s *Service) LogCalls(ctx context.Context, events ...*core.CallEvent) ([]*core.CallEvent, error) {
	return s.callLog.AppendCalls(ctx, events...)
}

// Catalog returns the tool catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// CallLog returns the call log repository.
func (s *Service) CallLog() storage.CallLogRepository {
	return s.callLog
}

// Miner returns the trace miner.
func (s *Service) Miner() *trace.Miner {
	return s.miner
}

func (s *Service) Close() error {
	if err := s.callLog.Close(); err != nil {
		s.logger.Error("error closing call log", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
