package acquisition

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"github.com/rs/zerolog/log"

	"github.com/fenwickretail/invpipe/internal/domain"
	"github.com/fenwickretail/invpipe/internal/pipeline"
)

// attachmentExts are the file extensions C11 downloads from a matching
// email (§4.11).
var attachmentExts = map[string]bool{
	".xlsx": true, ".xls": true, ".csv": true, ".tsv": true,
}

// EmailAdapter implements the IMAP acquisition channel: connect, search
// the configured folder for unread messages matching the sender
// allowlist and subject filter, and harvest attachments (and optionally
// body links) from each.
type EmailAdapter struct {
	fetcher *URLFetcher // reused for ExtractLinksFromBody downloads
}

// NewEmailAdapter builds an EmailAdapter. Link-extraction downloads share
// the URL-fetch adapter's resty client instead of standing up a second
// HTTP client for the same concern.
func NewEmailAdapter() *EmailAdapter {
	return &EmailAdapter{fetcher: NewURLFetcher()}
}

// PollResult is what one IMAP poll produced: buffers ready for an
// immediate run, plus files staged because the source is in multi-file
// mode (or multiple files were harvested from one message).
type PollResult struct {
	Buffers []pipeline.Buffer
	Staged  []domain.StagedFile
}

// Poll implements §4.11's email channel end to end.
func (a *EmailAdapter) Poll(ctx context.Context, deps Deps, source domain.Source) (PollResult, error) {
	cfg := source.Email
	if cfg.Host == "" {
		return PollResult{}, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("no IMAP host configured"))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var c *client.Client
	var err error
	if cfg.TLS {
		c, err = client.DialTLS(addr, nil)
	} else {
		c, err = client.Dial(addr)
	}
	if err != nil {
		return PollResult{}, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("dial %s: %w", addr, err))
	}
	defer c.Logout()

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		return PollResult{}, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("login: %w", err))
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "INBOX"
	}
	if _, err := c.Select(folder, false); err != nil {
		return PollResult{}, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("select %s: %w", folder, err))
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return PollResult{}, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("search: %w", err))
	}
	if len(ids) == 0 {
		return PollResult{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)
	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchUid}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() { done <- c.Fetch(seqset, items, messages) }()

	var result PollResult
	for msg := range messages {
		if msg == nil || msg.Envelope == nil {
			continue
		}
		if !matchesFilters(msg.Envelope, cfg) {
			continue
		}

		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		files, err := extractFiles(ctx, a.fetcher, source, body, cfg.ExtractLinksFromBody)
		if err != nil {
			log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to extract message content")
			continue
		}
		if len(files) == 0 {
			continue
		}

		for _, f := range files {
			hash := contentHash(f.Data)
			if existing, err := deps.StagedFiles.FindByContentHash(ctx, source.ID, hash); err == nil && existing != nil {
				continue // already processed this exact content
			}
			if cfg.MultiFileMode || len(files) > 1 {
				staged, err := stageEmailFile(ctx, deps, source, f, msg.Envelope.MessageId, hash)
				if err != nil {
					log.Warn().Err(err).Str("source_id", source.ID).Msg("failed to stage email attachment")
					continue
				}
				result.Staged = append(result.Staged, staged)
			} else {
				result.Buffers = append(result.Buffers, f)
			}
		}

		if cfg.MarkAsRead {
			markSeen := imap.FormatFlagsOp(imap.AddFlags, true)
			single := new(imap.SeqSet)
			single.AddNum(msg.SeqNum)
			if err := c.Store(single, markSeen, []interface{}{imap.SeenFlag}, nil); err != nil {
				log.Warn().Err(err).Msg("failed to mark message as read")
			}
		}
		if cfg.DeleteAfterDownload {
			del := imap.FormatFlagsOp(imap.AddFlags, true)
			single := new(imap.SeqSet)
			single.AddNum(msg.SeqNum)
			if err := c.Store(single, del, []interface{}{imap.DeletedFlag}, nil); err != nil {
				log.Warn().Err(err).Msg("failed to flag message for deletion")
			}
		}
	}
	if err := <-done; err != nil {
		return result, wrapAcquisitionErr(source.ID, "email", fmt.Errorf("fetch: %w", err))
	}
	if cfg.DeleteAfterDownload {
		if err := c.Expunge(nil); err != nil {
			log.Warn().Err(err).Msg("expunge failed")
		}
	}
	return result, nil
}

func matchesFilters(env *imap.Envelope, cfg domain.EmailSettings) bool {
	if len(cfg.SenderAllowlist) > 0 {
		matched := false
		for _, addr := range env.From {
			from := strings.ToLower(addr.MailboxName + "@" + addr.HostName)
			for _, allowed := range cfg.SenderAllowlist {
				if strings.Contains(from, strings.ToLower(allowed)) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return false
		}
	}
	if cfg.SubjectSubstring != "" && !strings.Contains(strings.ToLower(env.Subject), strings.ToLower(cfg.SubjectSubstring)) {
		return false
	}
	return true
}

// extractFiles reads one message's MIME tree for matching attachments,
// and optionally follows links found in the text/html body.
func extractFiles(ctx context.Context, fetcher *URLFetcher, source domain.Source, body io.Reader, extractLinks bool) ([]pipeline.Buffer, error) {
	mr, err := mail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	var files []pipeline.Buffer
	var bodyText strings.Builder

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return files, fmt.Errorf("read message part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.AttachmentHeader:
			name, _ := h.Filename()
			if !hasMatchingExt(name) {
				continue
			}
			data, err := io.ReadAll(part.Body)
			if err != nil {
				return files, fmt.Errorf("read attachment %s: %w", name, err)
			}
			files = append(files, pipeline.Buffer{Name: name, Data: data})
		case *mail.InlineHeader:
			if extractLinks {
				if ct, _, _ := h.ContentType(); strings.HasPrefix(ct, "text/") {
					data, _ := io.ReadAll(part.Body)
					bodyText.Write(data)
				}
			}
		}
	}

	if extractLinks && bodyText.Len() > 0 {
		for _, link := range extractLinksFromBody(bodyText.String()) {
			if !hasMatchingExt(link) {
				continue
			}
			buf, err := fetcher.Fetch(ctx, domain.Source{ID: source.ID, URLFetch: domain.URLFetchSettings{URL: link}})
			if err != nil {
				log.Warn().Err(err).Str("link", link).Msg("failed to fetch linked file")
				continue
			}
			files = append(files, buf)
		}
	}
	return files, nil
}

func hasMatchingExt(name string) bool {
	lower := strings.ToLower(name)
	for ext := range attachmentExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// extractLinksFromBody pulls plausible download URLs out of a plain-text
// or lightly-tagged HTML body. Deliberately simple: it looks for
// http(s):// tokens rather than running a full HTML parser, since the
// only links worth following are direct file URLs.
func extractLinksFromBody(body string) []string {
	var links []string
	fields := strings.FieldsFunc(body, func(r rune) bool {
		switch r {
		case ' ', '\n', '\r', '\t', '"', '\'', '<', '>', '(', ')':
			return true
		}
		return false
	})
	for _, f := range fields {
		if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
			links = append(links, f)
		}
	}
	return links
}

func stageEmailFile(ctx context.Context, deps Deps, source domain.Source, f pipeline.Buffer, messageID, hash string) (domain.StagedFile, error) {
	g, err := parseGridForPreview(f.Data, f.Name)
	if err != nil {
		return domain.StagedFile{}, err
	}
	header, preview := buildPreview(g)

	staged := domain.StagedFile{
		SourceID:    source.ID,
		FileName:    f.Name,
		HeaderRow:   header,
		PreviewRows: preview,
		Status:      domain.StagedFileStaged,
		MessageID:   messageID,
		ContentHash: hash,
	}
	id, err := deps.StagedFiles.Create(ctx, staged)
	if err != nil {
		return domain.StagedFile{}, fmt.Errorf("stage %s: %w", f.Name, err)
	}
	staged.ID = id

	if err := deps.Blob.Put(ctx, blobKey(source.ID, id), f.Data, ""); err != nil {
		return domain.StagedFile{}, fmt.Errorf("archive staged file %s: %w", id, err)
	}
	return staged, nil
}
