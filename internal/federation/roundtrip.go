package federation

import "surfwatch/internal/model"

// RoundTrip reports whether the session's event history contains a
// navigation pattern consistent with RP → IdP → RP: the user started on
// the relying party, was sent to the identity provider, and came back.
//
// This is a three-token subsequence match over the domain projection of
// the ordered event sequence — order matters, exact adjacency does not.
// Identical domains never constitute a federation relationship, and an
// absent or empty context yields false, never an error.
func RoundTrip(sc model.SessionContext, rp, idp string) bool {
	if rp == "" || idp == "" || rp == idp {
		return false
	}

	// state 0: looking for rp, 1: looking for idp, 2: looking for rp again
	state := 0
	for _, ev := range sc {
		switch state {
		case 0:
			if ev.Domain == rp {
				state = 1
			}
		case 1:
			if ev.Domain == idp {
				state = 2
			}
		case 2:
			if ev.Domain == rp {
				return true
			}
		}
	}
	return false
}
