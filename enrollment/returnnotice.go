package enrollment

import (
	"net/url"
)

const (
	ParamRedirectStatus = "redirect_status"
	ParamPaymentIntent  = "payment_intent"
	ParamClientSecret   = "payment_intent_client_secret"
)

var returnParams = []string{ParamRedirectStatus, ParamPaymentIntent, ParamClientSecret}

// ReturnNotice is what the processor appends to the return URL after an
// off-site confirmation step.
type ReturnNotice struct {
	RedirectStatus  string `json:"redirectStatus"`
	PaymentIntentID string `json:"paymentIntent,omitempty"`
	ClientSecret    string `json:"-"`
}

func (n ReturnNotice) Succeeded() bool {
	return n.RedirectStatus == string(StateSucceeded)
}

// MessageKey is the translation key of the notice shown to the visitor.
func (n ReturnNotice) MessageKey() string {
	if n.Succeeded() {
		return "paymentSucceeded"
	}
	return "paymentNotCompleted"
}

// ParseReturn extracts a notice from q. ok is false when no
// redirect_status is present.
func ParseReturn(q url.Values) (ReturnNotice, bool) {
	status := q.Get(ParamRedirectStatus)
	if status == "" {
		return ReturnNotice{}, false
	}
	return ReturnNotice{
		RedirectStatus:  status,
		PaymentIntentID: q.Get(ParamPaymentIntent),
		ClientSecret:    q.Get(ParamClientSecret),
	}, true
}

// StripReturnParams returns the path and query of u with the return
// parameters removed, so a reload never shows the notice again.
func StripReturnParams(u *url.URL) string {
	q := u.Query()
	for _, p := range returnParams {
		q.Del(p)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
