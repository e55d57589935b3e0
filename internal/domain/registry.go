package domain

// DiscontinuedStyleRegistration is one row of the cross-reference table a
// sale source writes and a linked regular source reads (§3, §4.7).
type DiscontinuedStyleRegistration struct {
	SaleSourceID    string
	NormalizedStyle string
	Active          bool
}

// ColorMapping is one row of the global bad-color -> good-color table
// consulted during cleaning (§4.3).
type ColorMapping struct {
	BadColor  string
	GoodColor string
}

// StagedFileStatus tracks a StagedFile through the email/manual multi-file
// combine flow.
type StagedFileStatus string

const (
	StagedFileStaged   StagedFileStatus = "staged"
	StagedFileImported StagedFileStatus = "imported"
	StagedFileError    StagedFileStatus = "error"
)

// StagedFile holds a raw preview of one file awaiting combine. It exists
// only for email-multi-file and manual-multi-file flows between
// acquisition and combine (§3).
type StagedFile struct {
	ID         string
	SourceID   string
	FileName   string
	HeaderRow  []string
	PreviewRows [][]string
	Status     StagedFileStatus
	MessageID  string // IMAP message-id, for dedup; empty for manual uploads
	ContentHash string
}
