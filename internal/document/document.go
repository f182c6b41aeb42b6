package document

import "time"

// Fields is the open, schema-less mapping extracted from a document image.
// Values are whatever scalars the model returned.
type Fields map[string]any

// Document represents one extracted document owned by a user
type Document struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	SourceImageName string    `json:"source_image_name"`
	ContentType     string    `json:"content_type"`
	Fields          Fields    `json:"fields"`
	CreatedAt       time.Time `json:"created_at"`
}

// Title returns the document's extracted title
func (d *Document) Title() string {
	if t, ok := d.Fields[titleKey].(string); ok {
		return t
	}
	return ""
}

// User is the owning principal for documents. The service only cares about
// its identifier and display name.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
