package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	// ErrSourceNotFound is returned when the CSV file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceTooLarge is returned when the CSV file exceeds the size limit.
	ErrSourceTooLarge = errors.New("source file too large")

	// ErrSourceNotFile is returned when the CSV path names a directory or device.
	ErrSourceNotFile = errors.New("source is not a regular file")
)

// sniffSize is how many leading bytes are inspected for encoding detection.
const sniffSize = 4096

// Source is CSV text fully materialized in memory, ready for parsing.
type Source struct {
	Path     string
	Text     string
	Encoding string // detected input charset, lower case
	Bytes    int64  // bytes read from the file
}

// LoadSource reads the file at path into memory.
//
// A missing file yields an error wrapping ErrSourceNotFound so callers can
// report it before any parsing happens. maxSize <= 0 disables the size check.
func LoadSource(path string, maxSize int64) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat source %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFile, path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrSourceTooLarge, path, info.Size(), maxSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	counter := NewStreamingCountingReader(f, info.Size())
	text, enc, err := DecodeSource(counter)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}

	return &Source{
		Path:     path,
		Text:     text,
		Encoding: enc,
		Bytes:    counter.BytesRead,
	}, nil
}

// DecodeSource reads r to the end and returns UTF-8 text along with the
// charset it was decoded from. A leading BOM is dropped. Input that is not
// valid UTF-8 is run through a single-byte decoder when the detector
// recognizes a legacy charset, otherwise invalid bytes become '?'.
func DecodeSource(r io.Reader) (string, string, error) {
	br := bufio.NewReaderSize(NewBOMSkippingReader(r), sniffSize)
	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return "", "", err
	}

	name, enc := detectEncoding(head)

	var src io.Reader
	if enc != nil {
		src = transform.NewReader(br, enc.NewDecoder())
	} else {
		src = NewStreamingUTF8Sanitizer(br)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", err
	}
	return string(data), name, nil
}

// detectEncoding inspects the first bytes of the input. A nil encoding means
// the text is treated as UTF-8.
func detectEncoding(head []byte) (string, encoding.Encoding) {
	sample := head[:len(head)-incompleteTrailingBytes(head)]
	if utf8.Valid(sample) {
		return "utf-8", nil
	}

	res, err := chardet.NewTextDetector().DetectBest(head)
	if err != nil || res == nil {
		return "utf-8", nil
	}

	name := strings.ToLower(res.Charset)
	if enc := encodingFor(name); enc != nil {
		return name, enc
	}
	return "utf-8", nil
}

// encodingFor maps a detector charset name to a decoder.
func encodingFor(name string) encoding.Encoding {
	switch strings.ToLower(name) {
	case "windows-1252", "iso-8859-1":
		return charmap.Windows1252
	case "iso-8859-2":
		return charmap.ISO8859_2
	case "iso-8859-9":
		return charmap.ISO8859_9
	case "windows-1251":
		return charmap.Windows1251
	case "iso-8859-5":
		return charmap.ISO8859_5
	case "koi8-r":
		return charmap.KOI8R
	default:
		return nil
	}
}
