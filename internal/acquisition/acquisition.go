// Package acquisition implements the Acquisition Adapters (C11): manual
// upload, scheduled URL fetch, IMAP email (attachment + link-extract),
// and the staged-file combine path. Every adapter's job ends at producing
// a pipeline.RunInput; none of them know about the 20-step sequence
// itself, the same separation the teacher keeps between its drive
// ingest service and the repository layer it writes through.
package acquisition

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fenwickretail/invpipe/internal/parse"
	"github.com/fenwickretail/invpipe/internal/pipelineerr"
	"github.com/fenwickretail/invpipe/internal/store"
)

// Deps bundles the seams every adapter needs beyond the source config
// itself.
type Deps struct {
	Blob        store.BlobStore
	StagedFiles store.StagedFileStore
	Now         func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// blobKey is the storage key convention shared by every adapter that
// stages a file: one flat prefix per source, named by the staged file id.
func blobKey(sourceID, stagedFileID string) string {
	return fmt.Sprintf("staged/%s/%s", sourceID, stagedFileID)
}

// contentHash is the dedupe key for C11's message/file-level dedupe
// (§4.11: "deduplicate messages by (message-id, content-hash)").
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// previewRowLimit caps how many data rows a StagedFile keeps for UI preview
// and spot debugging; the full content lives in blob storage under
// blobKey, so this is display-only.
const previewRowLimit = 20

// parseGridForPreview reads a raw acquired buffer into row cells for
// staging, sharing C2's same format-agnostic grid reader so an email
// attachment's preview is built the same way a manual upload's is.
func parseGridForPreview(data []byte, name string) ([][]string, error) {
	g, err := parse.ReadGrid(data, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return g.Rows, nil
}

func buildPreview(rows [][]string) (header []string, preview [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	header = rows[0]
	end := len(rows)
	if end > previewRowLimit+1 {
		end = previewRowLimit + 1
	}
	if end > 1 {
		preview = rows[1:end]
	}
	return header, preview
}

// wrapAcquisitionErr classifies a transport failure per the spec's error
// taxonomy so callers can branch with errors.As instead of string-matching.
func wrapAcquisitionErr(sourceID, channel string, err error) error {
	if err == nil {
		return nil
	}
	return &pipelineerr.AcquisitionError{SourceID: sourceID, Channel: channel, Err: err}
}
