package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bububa/textchunker/components/chunker"
)

type registration struct {
	mime   string
	mode   chunker.Mode
	parser Parser
}

// Loader detects the type of a source and extracts its text with the parser
// registered for that type. Text sources are read as is.
type Loader struct {
	mu      sync.RWMutex
	parsers []registration
	logger  *slog.Logger
}

type LoaderOption func(*Loader)

// WithLogger sets the logger, slog.Default() is used otherwise
func WithLogger(l *slog.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.logger = l
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	ret := new(Loader)
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret
}

// Register installs parser for a mime type. mode is the chunking mode of the
// parser's output. Later registrations for the same type replace earlier ones.
func (l *Loader) Register(mime string, mode chunker.Mode, parser Parser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for idx, r := range l.parsers {
		if r.mime == mime {
			l.parsers[idx] = registration{mime: mime, mode: mode, parser: parser}
			return
		}
	}
	l.parsers = append(l.parsers, registration{mime: mime, mode: mode, parser: parser})
}

// lookup walks the detected type and its parents until a registered parser
// matches.
func (l *Loader) lookup(mtype *mimetype.MIME) (registration, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for m := mtype; m != nil; m = m.Parent() {
		for _, r := range l.parsers {
			if m.Is(r.mime) {
				return r, true
			}
		}
	}
	return registration{}, false
}

// Load extracts the text of src.
func (l *Loader) Load(ctx context.Context, src Source) (*Document, error) {
	if src == nil || src.Size() == 0 {
		return nil, ErrEmptySource
	}
	mtype, err := mimetype.DetectReader(io.NewSectionReader(src, 0, src.Size()))
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", src.Name(), err)
	}
	doc := &Document{
		Name:     src.Name(),
		MimeType: mtype.String(),
		Meta:     src.Meta(),
	}
	logger := l.logger.With("name", doc.Name, "mime", doc.MimeType)
	if reg, ok := l.lookup(mtype); ok {
		var buf bytes.Buffer
		if err := reg.parser.Parse(ctx, src, &buf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", doc.Name, err)
		}
		doc.Mode = reg.mode
		doc.Text = buf.String()
		logger.Debug("document parsed", "mode", doc.Mode, "bytes", buf.Len())
		return doc, nil
	}
	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupported, doc.MimeType, doc.Name)
	}
	bs, err := io.ReadAll(io.NewSectionReader(src, 0, src.Size()))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Name, err)
	}
	if !utf8.Valid(bs) {
		bs = bytes.ToValidUTF8(bs, []byte(string(utf8.RuneError)))
	}
	doc.Mode = chunker.ModeForFile(doc.Name)
	doc.Text = string(bs)
	logger.Debug("text document loaded", "mode", doc.Mode, "bytes", len(bs))
	return doc, nil
}

// isText reports whether m is text/plain or one of its descendants such as
// text/csv or application/json.
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// EscapeMarkdown escapes the characters that would break a markdown table cell
// or be read as emphasis.
func EscapeMarkdown(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\', '|', '*', '_', '`', '[', ']':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case '\n', '\r':
			sb.WriteString("<br>")
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// StripUnprintable removes control characters except tabs and newlines.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
