package message

// Tag names one of the ten wire message variants.
type Tag string

const (
	TagInvoke                   Tag = "Invoke"
	TagRequestInput              Tag = "RequestInput"
	TagProvideInput              Tag = "ProvideInput"
	TagReturn                    Tag = "Return"
	TagCancel                    Tag = "Cancel"
	TagRequestUserConfirmation    Tag = "RequestUserConfirmation"
	TagProvideUserConfirmation    Tag = "ProvideUserConfirmation"
	TagRequestPayment             Tag = "RequestPayment"
	TagAuthorizePayment           Tag = "AuthorizePayment"
	TagRejectPayment              Tag = "RejectPayment"
)

// knownTags lists every tag Decode will accept; anything else fails with
// InvalidMessage.
var knownTags = map[Tag]bool{
	TagInvoke:                  true,
	TagRequestInput:             true,
	TagProvideInput:             true,
	TagReturn:                   true,
	TagCancel:                   true,
	TagRequestUserConfirmation:  true,
	TagProvideUserConfirmation:  true,
	TagRequestPayment:           true,
	TagAuthorizePayment:         true,
	TagRejectPayment:            true,
}

// Message is implemented by every wire payload type; Tag identifies which
// variant it is for marshaling and schema lookup.
type Message interface {
	Tag() Tag
}

// InputItem pairs an input type name with its supplied value, used both in
// Invoke and ProvideInput.
type InputItem struct {
	InputType string `json:"inputType"`
	Value     any    `json:"value"`
}

// UserConfirmation is the standing confirmation optionally supplied inline
// on Invoke, consumable exactly once by the first requestUserConfirmation
// wait (see core/servicectx).
type UserConfirmation struct {
	ConfirmedBy string `json:"confirmedBy"`
}

// Invoke is the agent's request to begin executing a command.
type Invoke struct {
	ConfigProfiles   map[string]any    `json:"configProfiles"`
	Inputs           []InputItem       `json:"inputs"`
	UserConfirmation *UserConfirmation `json:"userConfirmation,omitempty"`
}

func (Invoke) Tag() Tag { return TagInvoke }

// InputDescriptor describes one demanded input type in a RequestInput.
type InputDescriptor struct {
	Description string          `json:"description"`
	Schema      map[string]any  `json:"schema,omitempty"`
	Required    *bool           `json:"required,omitempty"`
	MinCount    *int            `json:"minCount,omitempty"`
}

// RequestInput is a service upcall demanding one or more named inputs.
type RequestInput struct {
	Inputs map[string]InputDescriptor `json:"inputs"`
}

func (RequestInput) Tag() Tag { return TagRequestInput }

// ProvideInput supplies inputs in reply to a RequestInput (or unsolicited,
// alongside Invoke).
type ProvideInput struct {
	Inputs []InputItem `json:"inputs"`
	Seq    *int        `json:"seq,omitempty"`
}

func (ProvideInput) Tag() Tag { return TagProvideInput }

// Output is a single successfully produced result item in a Return.
type Output struct {
	OutputType string `json:"outputType"`
	Data       any    `json:"data"`
	Summary    string `json:"summary,omitempty"`
}

// ErrorItem is a single failure item in a Return.
type ErrorItem struct {
	ErrorName   string `json:"errorName"`
	Description string `json:"description"`
	Data        any    `json:"data,omitempty"`
}

// ReturnItem is one of Output or Error; exactly one field is set.
type ReturnItem struct {
	Output *Output    `json:"-"`
	Error  *ErrorItem `json:"-"`
}

// Return carries a batch of return-buffer items, optionally closing the
// channel.
type Return struct {
	Items []ReturnItem `json:"items"`
	Close bool         `json:"close"`
	Seq   *int         `json:"seq,omitempty"`
}

func (Return) Tag() Tag { return TagReturn }

// Cancel requests the service abandon the in-flight invocation.
type Cancel struct{}

func (Cancel) Tag() Tag { return TagCancel }

// RequestUserConfirmation is a service upcall asking the agent to confirm
// an action identified by ReqID.
type RequestUserConfirmation struct {
	ReqID  string `json:"reqId"`
	Reason string `json:"reason,omitempty"`
}

func (RequestUserConfirmation) Tag() Tag { return TagRequestUserConfirmation }

// ProvideUserConfirmation answers a RequestUserConfirmation.
type ProvideUserConfirmation struct {
	ReqID       string `json:"reqId"`
	ConfirmedBy string `json:"confirmedBy"`
}

func (ProvideUserConfirmation) Tag() Tag { return TagProvideUserConfirmation }

// RequestPayment is a service upcall asking the agent to authorize payment.
type RequestPayment struct {
	ReqID                  string   `json:"reqId"`
	AcceptedPaymentSchemas []string `json:"acceptedPaymentSchemas"`
	Amount                 float64  `json:"amount"`
	Currency               string   `json:"currency"`
	Description            string   `json:"description"`
}

func (RequestPayment) Tag() Tag { return TagRequestPayment }

// AuthorizePayment answers a RequestPayment with a completed payment.
type AuthorizePayment struct {
	ReqID         string `json:"reqId"`
	PaymentID     string `json:"paymentId"`
	PaymentSchema string `json:"paymentSchema"`
	Amount        float64 `json:"amount"`
	Currency      string `json:"currency"`
	Token         string `json:"token"`
	PaymentData   any    `json:"paymentData,omitempty"`
}

func (AuthorizePayment) Tag() Tag { return TagAuthorizePayment }

// RejectPayment declines a RequestPayment.
type RejectPayment struct {
	ReqID  string `json:"reqId"`
	Reason string `json:"reason,omitempty"`
}

func (RejectPayment) Tag() Tag { return TagRejectPayment }
