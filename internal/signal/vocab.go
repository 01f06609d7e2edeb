// Package signal owns the closed vocabulary of signal codes, the evidence
// weight table, and URL-derived signal detection. All tables are frozen
// package data — there is no runtime mutation path.
package signal

import "surfwatch/internal/model"

// URL-derived codes. Structural evidence from the page's own address.
const (
	URLLoginPath   model.SignalCode = "url_login_path"
	URLOAuthParams model.SignalCode = "url_oauth_params"
	URLSignupPath  model.SignalCode = "url_signup_path"
	URLAccountPath model.SignalCode = "url_account_path"
	URLPaymentPath model.SignalCode = "url_payment_path"
	URLEditorPath  model.SignalCode = "url_editor_path"
)

// Relationship codes. Produced by federation inference, never by content.
const (
	RelRedirectMatch model.SignalCode = "rel_redirect_match"
	RelOpenerMatch   model.SignalCode = "rel_opener_match"
	RelKnownIdP      model.SignalCode = "rel_known_idp"
	RelTemporalChain model.SignalCode = "rel_temporal_chain"
)

// Content-derived codes. Auxiliary evidence only — these can corroborate
// structural evidence but never alone justify high confidence.
const (
	ContentPasswordField model.SignalCode = "content_password_field"
	ContentOTPField      model.SignalCode = "content_otp_field"
	ContentRichEditor    model.SignalCode = "content_rich_editor"
	ContentPaymentForm   model.SignalCode = "content_payment_form"
	ContentCardField     model.SignalCode = "content_card_field"
)

// categories maps every known code to its single activity level category.
// This map is also the vocabulary: a code is known iff it appears here.
var categories = map[model.SignalCode]model.ActivityLevel{
	URLLoginPath:   model.LevelAccount,
	URLOAuthParams: model.LevelAccount,
	URLSignupPath:  model.LevelAccount,
	URLAccountPath: model.LevelAccount,
	URLPaymentPath: model.LevelTransaction,
	URLEditorPath:  model.LevelUGC,

	RelRedirectMatch: model.LevelAccount,
	RelOpenerMatch:   model.LevelAccount,
	RelKnownIdP:      model.LevelAccount,
	RelTemporalChain: model.LevelAccount,

	ContentPasswordField: model.LevelAccount,
	ContentOTPField:      model.LevelAccount,
	ContentRichEditor:    model.LevelUGC,
	ContentPaymentForm:   model.LevelTransaction,
	ContentCardField:     model.LevelTransaction,
}

// Known reports whether the code is part of the vocabulary.
func Known(code model.SignalCode) bool {
	_, ok := categories[code]
	return ok
}

// CategoryOf returns the activity level category for a known code.
// Unknown codes report LevelView and false.
func CategoryOf(code model.SignalCode) (model.ActivityLevel, bool) {
	l, ok := categories[code]
	if !ok {
		return model.LevelView, false
	}
	return l, true
}

// Filter splits codes into vocabulary members and dropped strangers,
// preserving input order. Unknown codes are version skew or adversarial
// content-script input — dropped, never an error.
func Filter(codes []model.SignalCode) (valid, dropped []model.SignalCode) {
	for _, c := range codes {
		if Known(c) {
			valid = append(valid, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	return valid, dropped
}

// All returns every code in the vocabulary. Order is unspecified.
func All() []model.SignalCode {
	out := make([]model.SignalCode, 0, len(categories))
	for c := range categories {
		out = append(out, c)
	}
	return out
}
