package models

import "fmt"

// FetchFailure records one per-account fetch that degraded to an empty
// table. Failures never abort the pipeline; they are collected so the
// caller can see which sources are missing from the report.
type FetchFailure struct {
	Marketplace string
	Account     string
	Resource    string
	Err         error
}

// Source identifies the failed fetch as marketplace/account:resource.
func (f FetchFailure) Source() string {
	return fmt.Sprintf("%s/%s:%s", f.Marketplace, f.Account, f.Resource)
}
