package service

import (
	"context"
	"fmt"
	"strings"

	"prdgen/internal/domain/services"
)

const exportBanner = "=================================================="

// ExportAll renders every document as a flat text concatenation: a banner,
// the TITLE/VERSION/STATUS/CREATED header fields, another banner, then the
// full content, per document in listing order.
func ExportAll(ctx context.Context, docs services.DocumentService) (string, error) {
	documents, err := docs.ListAll(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, doc := range documents {
		fmt.Fprintf(&b, "\n%s\n", exportBanner)
		fmt.Fprintf(&b, "TITLE: %s\n", doc.Title)
		fmt.Fprintf(&b, "VERSION: %d\n", doc.Version)
		fmt.Fprintf(&b, "STATUS: %s\n", doc.Status)
		fmt.Fprintf(&b, "CREATED: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "%s\n\n", exportBanner)
		b.WriteString(doc.Content)
		b.WriteString("\n\n")
	}

	return b.String(), nil
}
