package acquisition

import (
	"context"
	"fmt"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/parse"
	"github.com/fenwickretail/invpipe/internal/pipeline"
)

// ManualUpload builds a RunInput directly from one or more uploaded
// buffers (§4.11: "one or multiple buffers submitted with the source id.
// Multi-file buffers are consolidated into one spreadsheet ... before
// format detection"). pipeline.Run does the actual consolidation; this
// adapter's only job is validating there is something to run.
func ManualUpload(source domain.Source, files map[string][]byte) (pipeline.RunInput, error) {
	if len(files) == 0 {
		return pipeline.RunInput{}, fmt.Errorf("manual upload for source %s: no files provided", source.ID)
	}
	buffers := make([]pipeline.Buffer, 0, len(files))
	for name, data := range files {
		buffers = append(buffers, pipeline.Buffer{Name: name, Data: data})
	}
	return pipeline.RunInput{Source: source, Buffers: buffers}, nil
}

// StageManualFile records one uploaded file for later combine instead of
// running it immediately, used when the user is assembling a multi-file
// manual batch the same way an email source with MultiFileMode stages
// attachments across several messages.
func StageManualFile(ctx context.Context, deps Deps, source domain.Source, name string, data []byte) (domain.StagedFile, error) {
	g, err := parse.ReadGrid(data, name)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("stage %s for source %s: %w", name, source.ID, err)
	}
	header, preview := buildPreview(g.Rows)
	hash := contentHash(data)

	if existing, err := deps.StagedFiles.FindByContentHash(ctx, source.ID, hash); err == nil && existing != nil {
		return *existing, nil
	}

	staged := domain.StagedFile{
		SourceID:    source.ID,
		FileName:    name,
		HeaderRow:   header,
		PreviewRows: preview,
		Status:      domain.StagedFileStaged,
		ContentHash: hash,
	}
	id, err := deps.StagedFiles.Create(ctx, staged)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("stage %s for source %s: %w", name, source.ID, err)
	}
	staged.ID = id

	if err := deps.Blob.Put(ctx, blobKey(source.ID, id), data, ""); err != nil {
		return domain.StagedFile{}, fmt.Errorf("archive staged file %s: %w", id, err)
	}
	return staged, nil
}
