package document

import (
	"fmt"
	"io"
	"sort"

	"github.com/jung-kurt/gofpdf"
)

// ExportPDF renders every document belonging to ownerID into a PDF written
// to w. The first page names the owner; each document gets its own section,
// with a page break between sections but none after the last. Documents are
// walked and written one at a time.
func (s *Service) ExportPDF(ownerID string, w io.Writer) error {
	user, err := s.db.GetUser(ownerID)
	if err != nil {
		return err
	}

	docs, err := s.db.ListByOwner(ownerID)
	if err != nil {
		return fmt.Errorf("%w: listing documents: %v", ErrStorage, err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%w: no documents for owner %s", ErrNotFound, ownerID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Documents for %s", user.Name)), "", 1, "C", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, "The following extracted documents belong to this user.", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	for i, doc := range docs {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Document #%d", i+1)), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 12)
		for _, key := range fieldOrder(doc.Fields) {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s: %v", key, doc.Fields[key])), "", "L", false)
			pdf.Ln(1)
		}

		if i < len(docs)-1 {
			pdf.AddPage()
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// fieldOrder gives a stable render order for a document's fields: title
// first, the rest sorted. Reserved storage keys never render.
func fieldOrder(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if _, reserved := reservedFieldKeys[key]; reserved || key == titleKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if _, ok := fields[titleKey]; ok {
		keys = append([]string{titleKey}, keys...)
	}
	return keys
}
