// Package extract pulls plain text out of uploaded SOP documents.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFileType is returned for extensions other than .pdf, .docx and .txt
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrEmptyDocument is returned when a file yields no text
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// Document is the extracted text of one file
type Document struct {
	FullText string
	// Pages holds per-page text for PDFs, nil otherwise
	Pages []string
}

// Supported reports whether filename has an extension Extract understands.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}

// Extract reads the text of data, dispatching on the extension of filename.
func Extract(data []byte, filename string) (Document, error) {
	var (
		doc Document
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		doc, err = extractPDF(data)
	case ".docx":
		doc, err = extractDOCX(data)
	case ".txt":
		doc = Document{FullText: decodeText(data)}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFileType, filename)
	}
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.FullText) == "" {
		return Document{}, ErrEmptyDocument
	}
	return doc, nil
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ToValidUTF8(string(data), "")
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func extractPDF(data []byte) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read pdf: %w", err)
	}

	var full strings.Builder
	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		text := pageText(reader.Page(i))
		pages = append(pages, text)
		if strings.TrimSpace(text) != "" {
			full.WriteString(text)
			full.WriteByte('\n')
		}
	}
	return Document{FullText: full.String(), Pages: pages}, nil
}

// pageText returns "" for pages the parser cannot decode.
func pageText(p pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	if p.V.IsNull() {
		return ""
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

func extractDOCX(data []byte) (Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Document{}, fmt.Errorf("failed to open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Document{}, fmt.Errorf("failed to open docx body: %w", err)
		}
		defer rc.Close()
		text, err := wordText(rc)
		if err != nil {
			return Document{}, err
		}
		return Document{FullText: text}, nil
	}
	return Document{}, errors.New("failed to open docx: word/document.xml missing")
}

// wordText returns the non-empty paragraphs of a WordprocessingML body, one per line.
func wordText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var out, para strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if strings.TrimSpace(para.String()) != "" {
					out.WriteString(para.String())
					out.WriteByte('\n')
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
