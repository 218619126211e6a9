// Package contract implements the billing policies a phone line can be under.
//
// Every policy satisfies Policy and is driven through the same lifecycle:
//
//	NewMonth  once per billing period, binding that period's bill
//	BillCall  once per call placed during the period
//	Cancel    at most once, returning the settlement amount
//
// Three policies are provided:
//   - MonthToMonth: flat monthly fee, every minute charged
//   - Term: monthly fee plus a one-time deposit, 100 free minutes a month,
//     deposit refunded when cancelled after the minimum term
//   - Prepaid: running credit balance carried between months with a forced
//     recharge when credit runs low
//
// Policies never own the bill they charge. The caller creates one bill per
// month and hands it over in NewMonth; the policy borrows it until the next
// NewMonth rebinds a new one. Policies are not safe for concurrent use.
package contract
