package models

// Activity event types mirrored into the daily report.
const (
	ActivityInvoice   = "invoice"
	ActivityWorkOrder = "Work Order"
)

// ActivityEvent is one immutable entry in the global workflow log. Date is
// DD/MM/YYYY and Time is HH:MM:SS; both are fixed-width zero-padded.
type ActivityEvent struct {
	Date          string `json:"date"`
	Time          string `json:"time"`
	User          string `json:"user"`
	HeadstoneName string `json:"headstoneName"`
	Type          string `json:"type"`
	Deposit       string `json:"deposit,omitempty"`
}

// User is one row of the tabular user store used for credential login.
type User struct {
	Name     string
	Password string
	Role     string
}

// ModelDetail is one row of the monument model catalog CSV.
type ModelDetail map[string]string
