package report

import (
	"fmt"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Render encodes doc in the requested format and returns its content type.
func Render(doc Document, format domain.ReportFormat) ([]byte, string, error) {
	switch format {
	case domain.FormatPDF, "":
		b, err := RenderPDF(doc)
		return b, ContentTypePDF, err
	case domain.FormatXLSX:
		b, err := RenderXLSX(doc)
		return b, ContentTypeXLSX, err
	default:
		return nil, "", fmt.Errorf("%w: unsupported report format %q", apperrors.ErrValidation, format)
	}
}
