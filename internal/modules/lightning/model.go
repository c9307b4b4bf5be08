package lightning

// InvoiceExtra is metadata attached at issuance time and round-tripped on the
// settlement event. Tag identifies invoices belonging to this extension.
type InvoiceExtra struct {
	Tag       string `json:"tag"`
	Reference string `json:"reference"`
}

// TagDiagonAlley marks invoices issued by this extension so the settlement
// listener can ignore everything else on the stream.
const TagDiagonAlley = "diagonalley"

// CreateInvoiceRequest asks the payment engine for a new invoice.
type CreateInvoiceRequest struct {
	InvoiceKey string // the receiving wallet's invoice key
	AmountSat  int64
	Memo       string
	Extra      InvoiceExtra
}

// Invoice is the engine's answer: an opaque settlement key plus the BOLT11
// string the buyer pays.
type Invoice struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
}

// PaymentStatus reports whether an invoice has settled.
type PaymentStatus struct {
	Paid     bool   `json:"paid"`
	Preimage string `json:"preimage,omitempty"`
}
