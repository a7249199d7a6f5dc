package dto

import "time"

// Attachment carries one uploaded file through the stage pipeline. MimeType
// is whatever the client declared; the store re-detects it from the bytes.
type Attachment struct {
	FileName string
	MimeType string
	Data     []byte
}

// InvoiceRequest is the save-invoice submission: the invoice PDF, the
// work-order JPG and the full form field map.
type InvoiceRequest struct {
	HeadstoneName string `validate:"required"`
	InvoiceNo     string `validate:"required"`
	Username      string `validate:"required"`
	Deposit       string
	PaymentMethod string
	Fields        map[string]string
	InvoicePDF    Attachment
	WorkOrderJPG  Attachment
}

// StageRequest is a replace-all stage submission (cemetery or engraving).
type StageRequest struct {
	HeadstoneName string `validate:"required"`
	InvoiceNo     string `validate:"required"`
	Images        []Attachment
}

// SplitStageRequest is a stage submission whose image array is partitioned
// between two sub-folders at SplitIndex (art and foundation submissions).
type SplitStageRequest struct {
	HeadstoneName string `validate:"required"`
	InvoiceNo     string `validate:"required"`
	SplitIndex    int    `validate:"min=0"`
	Images        []Attachment
}

// FollowUpDates are the cemetery/photo/bronze tracking fields the work-order
// stage back-patches into an existing record. JSON tags double as the keys
// written into the record's data map.
type FollowUpDates struct {
	CemeteryDate         string `json:"cemeteryDate"`
	CemeteryFollowUp1    string `json:"cemeteryFollowUp1"`
	CemeteryFollowUp2    string `json:"cemeteryFollowUp2"`
	CemeteryApprovedDate string `json:"cemeteryApprovedDate"`
	CemeteryNotes        string `json:"cemeteryNotes"`
	PhotoDate            string `json:"photoDate"`
	PhotoFollowUp1       string `json:"photoFollowUp1"`
	PhotoFollowUp2       string `json:"photoFollowUp2"`
	PhotoApprovedDate    string `json:"photoApprovedDate"`
	PhotoNotes           string `json:"photoNotes"`
	BronzeDate           string `json:"bronzeDate"`
	BronzeFollowUp1      string `json:"bronzeFollowUp1"`
	BronzeFollowUp2      string `json:"bronzeFollowUp2"`
	BronzeApprovedDate   string `json:"bronzeApprovedDate"`
	BronzeNotes          string `json:"bronzeNotes"`
}

// WorkOrderRequest saves the work-order image and tracking dates.
type WorkOrderRequest struct {
	HeadstoneName string `validate:"required"`
	InvoiceNo     string `validate:"required"`
	Username      string `validate:"required"`
	Image         Attachment
	FollowUps     FollowUpDates
}

// ImageMetadata is one attachment rendered for retrieval.
type ImageMetadata struct {
	FileName   string    `json:"fileName"`
	Base64Data string    `json:"base64Data"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// WorkOrderView assembles an order's record fields and every stage's images.
type WorkOrderView struct {
	HeadStoneName    string            `json:"headStoneName"`
	InvoiceNo        string            `json:"invoiceNo"`
	Fields           map[string]string `json:"fields"`
	DesignApproved   []ImageMetadata   `json:"cemeterySubmission"`
	Engraved         []ImageMetadata   `json:"engravingSubmission"`
	Foundation       []ImageMetadata   `json:"foundationInstall"`
	MonumentSetting  []ImageMetadata   `json:"monumentSetting"`
	CemeteryApproval []ImageMetadata   `json:"cemeteryApproval"`
	FinalArt         []ImageMetadata   `json:"finalArt"`
}
