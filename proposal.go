package webscraper

import (
	"errors"
	"strings"
)

// Labels that anchor the proposal fields in PDF text.
const (
	LabelGrandTotal  = "Grand\nTotal:"
	LabelDiscount    = "Discount"
	LabelTerm        = "Term:"
	LabelTrialPeriod = "Trial\nPeriod:"
)

const (
	autoRenewMarker = "auto-renew"
	basicMarker     = "Basic"
)

// Proposal holds the business fields interpreted from one proposal document.
type Proposal struct {
	GrandTotal  Value
	Discount    Value
	Term        Value
	TermLength  Value // first token of Term, e.g. "12"
	AutoRenew   bool
	Basic       bool
	TrialPeriod Value // first token after the trial period label
}

// InterpretProposal extracts the proposal fields from the text of a
// downloaded document. Fields are extracted independently: a missing label
// leaves its field absent, and a malformed one leaves it absent and is
// reported in the returned error. The Proposal is always non-nil and fully
// populated with whatever could be found.
func InterpretProposal(text string) (*Proposal, error) {
	var errs []error
	extract := func(label string) Value {
		v, err := ExtractValue(text, label, DelimNewline)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	p := &Proposal{
		GrandTotal: extract(LabelGrandTotal),
		Discount:   extract(LabelDiscount),
		Term:       extract(LabelTerm),
	}
	p.TermLength = FirstToken(p.Term)
	p.AutoRenew = strings.Contains(p.Term.String(), autoRenewMarker)
	p.Basic = strings.Contains(text, basicMarker)
	p.TrialPeriod = FirstToken(extract(LabelTrialPeriod))

	return p, errors.Join(errs...)
}
