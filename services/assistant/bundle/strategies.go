// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package bundle

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
)

// fetchList runs one guarded list fetch, degrading to nil and recording a
// warning on failure.
func fetchList[T any](ctx context.Context, b *build, op string, fn func(context.Context) ([]T, error)) []T {
	out := decoder.Attempt(ctx, b.agg.guard, op, fn)
	b.note(out.Op, out.Err)
	return out.Or(nil)
}

// functions is the FindFunctions strategy.
//
// Only function elements with a file path outside vendor markers are
// considered. Topics match name or file path, entities match name. The
// first max matches are enriched with their relationships in parallel; a
// failed relationship fetch leaves that source with none.
func (b *build) functions(ctx context.Context) []Source {
	elements := fetchList(ctx, b, "code_elements", func(ctx context.Context) ([]decoder.CodeElement, error) {
		return b.agg.reader.GetCodeElements(ctx, b.repoID, "function")
	})

	var matched []decoder.CodeElement
	for _, e := range elements {
		if !strings.EqualFold(e.ElementType, "function") || e.FilePath == "" {
			continue
		}
		if isVendored(e.FilePath, b.agg.vendorMarkers) {
			continue
		}
		if b.matcher.match(e.Name, e.FilePath) {
			matched = append(matched, e)
		}
	}
	matched = head(matched, b.max)

	enriched := make([]FunctionSource, len(matched))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.agg.maxConcurrency)
	for i, e := range matched {
		g.Go(func() error {
			rels := decoder.Attempt(gCtx, b.agg.guard, "code_relationships", func(ctx context.Context) ([]decoder.Relationship, error) {
				return b.agg.reader.GetCodeRelationships(ctx, b.repoID, decoder.RelationshipQuery{ElementID: e.ID})
			})
			b.note(rels.Op+"["+e.ID+"]", rels.Err)

			relationships := rels.Or(nil)
			if relationships == nil {
				relationships = []decoder.Relationship{}
			}
			enriched[i] = FunctionSource{
				Type:          SourceCodeElement,
				ID:            e.ID,
				Name:          e.Name,
				Signature:     e.Signature,
				FilePath:      e.FilePath,
				Line:          e.Line,
				Language:      e.Language,
				Relationships: relationships,
			}
			return nil
		})
	}
	_ = g.Wait()

	sources := make([]Source, 0, len(enriched))
	for _, s := range enriched {
		sources = append(sources, s)
	}
	return sources
}

// services is the ListServices strategy: topics match name or provider.
func (b *build) services(ctx context.Context) []Source {
	items := fetchList(ctx, b, "services", func(ctx context.Context) ([]decoder.Service, error) {
		return b.agg.reader.GetServices(ctx, b.repoID)
	})
	m := b.matcher.topicsOnly()

	sources := make([]Source, 0, min(len(items), b.max))
	for _, s := range items {
		if len(sources) == b.max {
			break
		}
		if m.match(s.Name, s.Provider) {
			sources = append(sources, ServiceSource{
				Type:        SourceService,
				ID:          s.ID,
				Name:        s.Name,
				Provider:    s.Provider,
				ServiceType: s.ServiceType,
				FilePath:    s.FilePath,
			})
		}
	}
	return sources
}

// dependencies is the FindDependencies strategy: topics match name.
func (b *build) dependencies(ctx context.Context) []Source {
	items := fetchList(ctx, b, "dependencies", func(ctx context.Context) ([]decoder.Dependency, error) {
		return b.agg.reader.GetDependencies(ctx, b.repoID)
	})
	m := b.matcher.topicsOnly()

	sources := make([]Source, 0, min(len(items), b.max))
	for _, d := range items {
		if len(sources) == b.max {
			break
		}
		if m.match(d.Name) {
			sources = append(sources, DependencySource{
				Type:           SourceDependency,
				ID:             d.ID,
				Name:           d.Name,
				Version:        d.Version,
				PackageManager: d.PackageManager,
			})
		}
	}
	return sources
}

// tools is the ToolDiscovery strategy. Tools are not filtered.
func (b *build) tools(ctx context.Context) []Source {
	items := fetchList(ctx, b, "tools", func(ctx context.Context) ([]decoder.Tool, error) {
		return b.agg.reader.GetTools(ctx, b.repoID)
	})

	items = head(items, b.max)
	sources := make([]Source, 0, len(items))
	for _, t := range items {
		sources = append(sources, ToolSource{
			Type:       SourceTool,
			ID:         t.ID,
			Name:       t.Name,
			ToolType:   t.ToolType,
			ConfigFile: t.ConfigFile,
		})
	}
	return sources
}

// tests is the FindTests strategy: topics match name, framework or path.
func (b *build) tests(ctx context.Context) []Source {
	items := fetchList(ctx, b, "tests", func(ctx context.Context) ([]decoder.Test, error) {
		return b.agg.reader.GetTests(ctx, b.repoID)
	})
	m := b.matcher.topicsOnly()

	sources := make([]Source, 0, min(len(items), b.max))
	for _, t := range items {
		if len(sources) == b.max {
			break
		}
		if m.match(t.Name, t.TestFramework, t.FilePath) {
			sources = append(sources, TestSource{
				Type:          SourceTest,
				ID:            t.ID,
				Name:          t.Name,
				TestFramework: t.TestFramework,
				TestType:      t.TestType,
				FilePath:      t.FilePath,
				LineNumber:    t.LineNumber,
				Language:      t.Language,
				SuiteName:     t.SuiteName,
				Signature:     t.Signature,
			})
		}
	}
	return sources
}

// documentation is the FindDocumentation strategy: topics match file name,
// title, description or path.
func (b *build) documentation(ctx context.Context) []Source {
	items := fetchList(ctx, b, "documentation", func(ctx context.Context) ([]decoder.Documentation, error) {
		return b.agg.reader.GetDocumentation(ctx, b.repoID)
	})
	m := b.matcher.topicsOnly()

	sources := make([]Source, 0, min(len(items), b.max))
	for _, d := range items {
		if len(sources) == b.max {
			break
		}
		if m.match(d.FileName, d.Title, d.Description, d.FilePath) {
			sources = append(sources, DocumentationSource{
				Type:             SourceDocumentation,
				ID:               d.ID,
				FileName:         d.FileName,
				FilePath:         d.FilePath,
				DocType:          d.DocType,
				Title:            d.Title,
				Description:      d.Description,
				WordCount:        d.WordCount,
				LineCount:        d.LineCount,
				HasCodeExamples:  d.HasCodeExamples,
				HasAPIReferences: d.HasAPIReferences,
				HasDiagrams:      d.HasDiagrams,
				ContentPreview:   truncate(d.ContentPreview, previewLimit),
			})
		}
	}
	return sources
}

// general is the strategy for General and RefactoringImpact queries.
//
// The five domains are fetched concurrently. Each list is cut to its share
// of max (a third for code elements, services and dependencies, a fifth for
// tests and documentation) and the shared matching rule is then applied
// inside that cut. Sources use compact projections, in the fixed order code
// elements, services, dependencies, tests, documentation.
func (b *build) general(ctx context.Context) []Source {
	var (
		elements []decoder.CodeElement
		services []decoder.Service
		deps     []decoder.Dependency
		tests    []decoder.Test
		docs     []decoder.Documentation
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		elements = fetchList(gCtx, b, "code_elements", func(ctx context.Context) ([]decoder.CodeElement, error) {
			return b.agg.reader.GetCodeElements(ctx, b.repoID, "")
		})
		return nil
	})
	g.Go(func() error {
		services = fetchList(gCtx, b, "services", func(ctx context.Context) ([]decoder.Service, error) {
			return b.agg.reader.GetServices(ctx, b.repoID)
		})
		return nil
	})
	g.Go(func() error {
		deps = fetchList(gCtx, b, "dependencies", func(ctx context.Context) ([]decoder.Dependency, error) {
			return b.agg.reader.GetDependencies(ctx, b.repoID)
		})
		return nil
	})
	g.Go(func() error {
		tests = fetchList(gCtx, b, "tests", func(ctx context.Context) ([]decoder.Test, error) {
			return b.agg.reader.GetTests(ctx, b.repoID)
		})
		return nil
	})
	g.Go(func() error {
		docs = fetchList(gCtx, b, "documentation", func(ctx context.Context) ([]decoder.Documentation, error) {
			return b.agg.reader.GetDocumentation(ctx, b.repoID)
		})
		return nil
	})
	_ = g.Wait()

	third, fifth := b.max/3, b.max/5
	var sources []Source

	// Vendored elements are dropped inside the cut, never replaced.
	for _, e := range head(elements, third) {
		if isVendored(e.FilePath, b.agg.vendorMarkers) {
			continue
		}
		if b.matcher.match(e.Name, e.FilePath) {
			sources = append(sources, FunctionSource{Type: SourceCodeElement, ID: e.ID, Name: e.Name, FilePath: e.FilePath})
		}
	}
	for _, s := range head(services, third) {
		if b.matcher.match(s.Name, s.Provider) {
			sources = append(sources, ServiceSource{Type: SourceService, ID: s.ID, Name: s.Name, Provider: s.Provider})
		}
	}
	for _, d := range head(deps, third) {
		if b.matcher.match(d.Name) {
			sources = append(sources, DependencySource{Type: SourceDependency, ID: d.ID, Name: d.Name, Version: d.Version})
		}
	}
	for _, t := range head(tests, fifth) {
		if b.matcher.match(t.Name, t.TestFramework, t.FilePath) {
			sources = append(sources, TestSource{Type: SourceTest, ID: t.ID, Name: t.Name, TestFramework: t.TestFramework, FilePath: t.FilePath})
		}
	}
	for _, d := range head(docs, fifth) {
		if b.matcher.match(d.FileName, d.Title, d.Description, d.FilePath) {
			sources = append(sources, DocumentationSource{Type: SourceDocumentation, ID: d.ID, FileName: d.FileName, FilePath: d.FilePath, Title: d.Title})
		}
	}
	return sources
}
