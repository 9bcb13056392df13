// Package resume turns an uploaded résumé file into plain text and best-effort
// contact details.
package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"code.sajari.com/docconv"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnsupportedFileType is returned for anything that is not a PDF or DOCX file.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Data is the extraction result. Contact fields are empty strings when they
// could not be found.
type Data struct {
	Name     string
	Email    string
	Phone    string
	Text     string
	FileName string
}

// Extractor parses a résumé file at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (Data, error)
}

type converter func(r io.Reader) (string, map[string]string, error)

// DocumentExtractor extracts text from PDF and DOCX files with docconv.
type DocumentExtractor struct {
	logger      *zap.Logger
	convertPDF  converter
	convertDOCX converter
}

// NewDocumentExtractor returns an extractor backed by docconv. PDF conversion
// needs pdftotext from poppler-utils on PATH.
func NewDocumentExtractor(logger *zap.Logger) *DocumentExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentExtractor{
		logger:      logger,
		convertPDF:  docconv.ConvertPDF,
		convertDOCX: docconv.ConvertDocx,
	}
}

// Extract detects the file type, converts it to text and pulls contact details
// out of the text.
func (e *DocumentExtractor) Extract(ctx context.Context, path string) (Data, error) {
	if err := ctx.Err(); err != nil {
		return Data{}, err
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("detect file type: %w", err)
	}

	var convert converter
	switch {
	case mtype.Is(MIMEPDF):
		convert = e.convertPDF
	case mtype.Is(MIMEDOCX):
		convert = e.convertDOCX
	default:
		return Data{}, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mtype.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return Data{}, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	text, _, err := convert(f)
	if err != nil {
		return Data{}, fmt.Errorf("convert %s: %w", mtype.String(), err)
	}

	data := ExtractContact(text)
	data.FileName = filepath.Base(path)

	e.logger.Debug("resume extracted",
		zap.String("file", data.FileName),
		zap.String("mime", mtype.String()),
		zap.Int("text_length", len(text)),
		zap.Bool("has_name", data.Name != ""),
		zap.Bool("has_email", data.Email != ""),
		zap.Bool("has_phone", data.Phone != ""),
	)

	return data, nil
}
