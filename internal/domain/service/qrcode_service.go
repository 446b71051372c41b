package service

// QRCodeService renders share links as QR codes for the printed report.
type QRCodeService interface {
	// GenerateLinkQR returns a PNG QR code encoding the given URL.
	GenerateLinkQR(link string) ([]byte, error)
}
