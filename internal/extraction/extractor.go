package extraction

import (
	"context"
	"errors"
)

// ErrService indicates the external document-understanding service could not
// be reached or returned an unusable response.
var ErrService = errors.New("extraction service failure")

// Extractor defines the interface for document text extraction
type Extractor interface {
	// Extract analyzes a document image and returns the raw model response text
	Extract(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close closes the extractor and releases resources
	Close() error
}

// documentScanPrompt is the shared prompt used by all providers. The model is
// instructed to always include a title key; everything else is open-ended.
const documentScanPrompt = `You are analyzing a scanned document image. Carefully read all text in the image and extract its contents as structured data.

Return ONLY a flat JSON object. Rules:

1. The key "title" is mandatory. It must hold a short human-readable title for the document (e.g. "Electricity Invoice - March", "Employment Contract").
2. Extract as many meaningful fields from the document as you can, one JSON key per field. Prefer short snake_case keys (e.g. "invoice_number", "total_amount", "issue_date").
3. All values must be strings or numbers. No nested objects or arrays.
4. If the document appears confidential or unreadable, return only a title describing the document type and nothing else.
5. Do not include any text before or after the JSON. Do not use markdown code blocks.`
