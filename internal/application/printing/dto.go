package printing

import "time"

// DeliveryNoteResult is a rendered delivery note
type DeliveryNoteResult struct {
	PDF       []byte
	Filename  string
	PageCount int
	// StoredPath is relative to the document storage root, empty when not stored
	StoredPath string
	// DownloadURL is a presigned archive link, empty when archiving is off
	DownloadURL string
	ExpiresAt   *time.Time
	// HiddenImages counts images dropped after a failed or slow load
	HiddenImages int
}

// DeliveryNoteFilename is the attachment name of an order's delivery note
func DeliveryNoteFilename(orderNumber string) string {
	return "BL_" + orderNumber + ".pdf"
}
