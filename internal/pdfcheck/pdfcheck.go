// Package pdfcheck validates uploaded PDFs before they are sent to a model.
package pdfcheck

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"legalextract/internal/domain"
	"legalextract/internal/port"
)

var pdfMagic = []byte("%PDF-")

// Inspector implements port.PDFInspector with pdfcpu in relaxed validation mode.
type Inspector struct {
	conf *model.Configuration
}

// NewInspector creates an Inspector.
func NewInspector() *Inspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

// Inspect reads the document structure and returns its page count. Anything
// that is not a readable PDF is reported as domain.ErrUnsupportedFileType.
func (i *Inspector) Inspect(data []byte) (*port.PDFInfo, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return nil, fmt.Errorf("%w: missing PDF header", domain.ErrUnsupportedFileType)
	}

	pages, err := api.PageCount(bytes.NewReader(data), i.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFileType, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", domain.ErrUnsupportedFileType)
	}
	return &port.PDFInfo{PageCount: pages}, nil
}
