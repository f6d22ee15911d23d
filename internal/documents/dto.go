package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	RiskFlags  []string  `json:"riskFlags"`
	RiskScore  int       `json:"riskScore"`
	RiskBand   string    `json:"riskBand"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	flags := doc.RiskFlags
	if flags == nil {
		flags = []string{}
	}
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		Title:      doc.Title,
		Summary:    doc.Summary,
		RiskFlags:  flags,
		RiskScore:  doc.RiskScore,
		RiskBand:   RiskBand(doc.RiskScore),
		UploadedAt: doc.UploadedAt,
	}
}
