package acquisition

import (
	"context"
	"fmt"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/pipeline"
)

// Combine implements the staged-file combine adapter (§4.11): every file
// currently staged for source is fetched from blob storage, parsed and
// prefixed inline (the same way a per-file run applies step 8 before
// running the rest of the pipeline), and handed to pipeline.Run as one
// pre-consolidated RunInput so steps 1-4 and 8 are skipped there.
func Combine(ctx context.Context, deps Deps, source domain.Source) (pipeline.RunInput, error) {
	staged, err := deps.StagedFiles.ListBySource(ctx, source.ID, domain.StagedFileStaged)
	if err != nil {
		return pipeline.RunInput{}, fmt.Errorf("list staged files for source %s: %w", source.ID, err)
	}
	if len(staged) == 0 {
		return pipeline.RunInput{}, fmt.Errorf("combine source %s: no staged files", source.ID)
	}

	var variants []domain.Variant
	ids := make([]string, 0, len(staged))
	for _, f := range staged {
		data, err := deps.Blob.Get(ctx, blobKey(source.ID, f.ID))
		if err != nil {
			return pipeline.RunInput{}, fmt.Errorf("fetch staged file %s: %w", f.ID, err)
		}
		extracted, err := pipeline.ExtractPrefixedVariants(source, pipeline.Buffer{Name: f.FileName, Data: data})
		if err != nil {
			return pipeline.RunInput{}, fmt.Errorf("extract staged file %s: %w", f.ID, err)
		}
		variants = append(variants, extracted...)
		ids = append(ids, f.ID)
	}

	return pipeline.RunInput{
		Source:          source,
		PreConsolidated: variants,
		IsCombine:       true,
		StagedFileIDs:   ids,
	}, nil
}

// CombineReady reports whether enough files are staged for source to
// trigger a combine, per §4.11: "let C15 / a combine trigger invoke the
// combine adapter when expectedFiles files are present."
func CombineReady(ctx context.Context, deps Deps, source domain.Source) (bool, error) {
	if source.Email.ExpectedFiles <= 0 {
		return false, nil
	}
	staged, err := deps.StagedFiles.ListBySource(ctx, source.ID, domain.StagedFileStaged)
	if err != nil {
		return false, fmt.Errorf("list staged files for source %s: %w", source.ID, err)
	}
	return len(staged) >= source.Email.ExpectedFiles, nil
}
