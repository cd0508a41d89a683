// Package billing contains the core billing domain: cost rules with
// wildcard fallback, monetary-to-credit conversion, the append-only
// transaction ledger, and low-credit threshold tracking.
//
// All monetary and credit amounts use shopspring/decimal. A transaction's
// credit amount is signed: negative values are debits against the account's
// credit balance.
package billing
