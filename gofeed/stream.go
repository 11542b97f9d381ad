package gofeed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

var utf8BOM = []byte("\xEF\xBB\xBF")

// entryStream walks an XML feed and parses each <item> or <entry> as soon as
// its end tag is read, so entries before a syntax error are still delivered.
// Each entry is parsed by gofeed inside a copy of the document header,
// which keeps namespace declarations and channel context in scope.
type entryStream struct {
	body   []byte
	parser *gofeed.Parser

	// delivered counts entries handed to the callback.
	delivered int
}

// errStop wraps a callback error so it is not mistaken for a parse error.
type errStop struct{ err error }

func (e *errStop) Error() string { return e.err.Error() }
func (e *errStop) Unwrap() error { return e.err }

// each calls fn for every entry in document order. It returns the first
// syntax error, or the callback error wrapped in errStop.
func (s *entryStream) each(fn func(*gofeed.Item) error) error {
	body := bytes.TrimPrefix(s.body, utf8BOM)

	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity

	var (
		stack     []string // raw qualified names of open elements
		header    []byte
		itemStart = -1
		itemDepth int
		closers   string
	)
	for {
		offset := int(d.InputOffset())
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if itemStart < 0 && isEntry(t.Name.Local) {
				if header == nil {
					header = body[:offset]
				}
				itemStart = offset
				itemDepth = len(stack)
				closers = closingTags(stack)
			}
			stack = append(stack, rawName(body[offset:]))
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if itemStart < 0 || len(stack) != itemDepth {
				continue
			}
			end := int(d.InputOffset())
			if err := s.emit(header, body[itemStart:end], closers, fn); err != nil {
				return err
			}
			itemStart = -1
		}
	}
}

func (s *entryStream) emit(header, entry []byte, closers string, fn func(*gofeed.Item) error) error {
	doc := make([]byte, 0, len(header)+len(entry)+len(closers))
	doc = append(doc, header...)
	doc = append(doc, entry...)
	doc = append(doc, closers...)

	feed, err := s.parser.Parse(bytes.NewReader(doc))
	if err != nil {
		return err
	}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		s.delivered++
		if err := fn(item); err != nil {
			return &errStop{err: err}
		}
	}
	return nil
}

func isEntry(local string) bool {
	return local == "item" || local == "entry"
}

// rawName returns the qualified tag name at the start of a start tag.
func rawName(tag []byte) string {
	tag = bytes.TrimPrefix(tag, []byte("<"))
	if i := bytes.IndexAny(tag, " \t\r\n/>"); i >= 0 {
		tag = tag[:i]
	}
	return string(tag)
}

// closingTags closes the open elements innermost first.
func closingTags(stack []string) string {
	var b strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString("</")
		b.WriteString(stack[i])
		b.WriteString(">")
	}
	return b.String()
}
