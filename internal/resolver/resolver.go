// Package resolver answers the editor's question "which flags compile this
// file?" from a caller-supplied compilation database lookup.
package resolver

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/flags"
)

// Result is the answer for one file.
type Result struct {
	Flags   []string `json:"flags" yaml:"flags"`
	DoCache bool     `json:"do_cache" yaml:"do_cache"`
}

// FileResult pairs a file with its resolution, for batch lookups. Result is
// nil when nothing is known about the file.
type FileResult struct {
	File   string  `json:"file" yaml:"file"`
	Result *Result `json:"result" yaml:"result"`
}

// FlagsForFile resolves the compile flags for filename from db. Headers are
// resolved through the first sibling source file that exists and is known to
// db, falling back to the header's own entry. The second return value is
// false when db is nil or knows nothing about the file.
func FlagsForFile(db compdb.Lookup, filename string) (Result, bool) {
	info, ok := CompilationInfo(db, filename)
	if !ok {
		return Result{}, false
	}
	return Result{
		Flags:   flags.Normalize(info.Flags, info.WorkingDirectory),
		DoCache: true,
	}, true
}

// CompilationInfo returns the raw database answer FlagsForFile normalizes,
// including the header-to-source mapping.
func CompilationInfo(db compdb.Lookup, filename string) (compdb.CompilationInfo, bool) {
	if db == nil {
		return compdb.CompilationInfo{}, false
	}

	// Headers rarely have their own database entry; borrow a source file's.
	for _, candidate := range flags.SourceCandidates(filename) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if info, ok := db.CompilationInfoForFile(candidate); ok {
			return info, true
		}
	}

	return db.CompilationInfoForFile(filename)
}

// Resolver wraps FlagsForFile with configurable extra and fallback flags.
type Resolver struct {
	DB compdb.Lookup

	// ExtraFlags are appended to every successful result.
	ExtraFlags []string

	// FallbackFlags are used, normalized against FallbackDir, when DB has no
	// answer. Empty means no fallback.
	FallbackFlags []string
	FallbackDir   string

	// Parallelism bounds ResolveAll; 0 or less means unbounded.
	Parallelism int
}

// Resolve returns the flags for one file.
func (r *Resolver) Resolve(filename string) (Result, bool) {
	res, ok := FlagsForFile(r.DB, filename)
	if !ok {
		if len(r.FallbackFlags) == 0 {
			return Result{}, false
		}
		res = Result{
			Flags:   flags.Normalize(r.FallbackFlags, r.FallbackDir),
			DoCache: true,
		}
	}
	if len(r.ExtraFlags) > 0 {
		res.Flags = append(res.Flags, r.ExtraFlags...)
	}
	return res, true
}

// ResolveAll resolves files concurrently and returns results in input order.
func (r *Resolver) ResolveAll(ctx context.Context, files []string) ([]FileResult, error) {
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if r.Parallelism > 0 {
		g.SetLimit(r.Parallelism)
	}

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].File = file
			if res, ok := r.Resolve(file); ok {
				results[i].Result = &res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
