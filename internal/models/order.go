package models

// Deposit is one payment received against an order. The history is
// append-only: resubmitting an invoice adds an entry, it never rewrites one.
type Deposit struct {
	DepositAmount string `json:"depositAmount"`
	Date          string `json:"date"`
	PaymentMethod string `json:"paymentMethod"`
}

// OrderRecord is the JSON document stored as data.json inside an order
// directory. Data holds the flat form fields submitted across stages;
// Deposits accumulates payment entries across invoice resubmissions.
type OrderRecord struct {
	Data     map[string]string `json:"data"`
	Deposits []Deposit         `json:"deposits,omitempty"`
}

// NewOrderRecord returns an empty record ready for merging.
func NewOrderRecord() OrderRecord {
	return OrderRecord{Data: map[string]string{}}
}

// OrderRef identifies an order by its business key.
type OrderRef struct {
	HeadstoneName string `json:"headstoneName"`
	InvoiceNo     string `json:"invoiceNo"`
}

// Stage folder paths relative to the order directory. These names are part of
// the persisted layout shared with other tooling and must not change.
const (
	RecordFileName = "data.json"

	WorkOrderDir = "Work Order"

	StageCemeterySubmission = WorkOrderDir + "/Cemetery_Submission"
	StageDesignApproved     = WorkOrderDir + "/Design Approved"
	StageEngraved           = WorkOrderDir + "/Engraved"
	StageFoundation         = WorkOrderDir + "/Foundation"
	StageMonumentSetting    = WorkOrderDir + "/Monument Setting"
	StageArtSubmission      = WorkOrderDir + "/Art_Submission"
	StageFinalArt           = StageArtSubmission + "/Final_Art"
	StageArtCemetery        = StageArtSubmission + "/Cemetery_Approval"
	StageArtwork            = "Artwork"
	StageCemeteryApproval   = "Cemetery Approval"
)

// InvoiceScaffold lists the stage folders created up front when an invoice is
// saved, so later stages always find their directories in place.
var InvoiceScaffold = []string{
	StageDesignApproved,
	StageFoundation,
	StageMonumentSetting,
	StageEngraved,
	StageArtwork,
	StageCemeteryApproval,
}
