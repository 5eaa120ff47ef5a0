package models

import "time"

// AnomalyRecord is one append-only entry in the review log. Records are never
// mutated and never feed back into the accept/reject decision.
type AnomalyRecord struct {
	ID        string     `json:"id" redis:"id"`
	Wallet    string     `json:"wallet" redis:"wallet"`
	Reason    ReasonCode `json:"reason" redis:"reason"`
	Details   string     `json:"details,omitempty" redis:"details"`
	ClientIP  string     `json:"client_ip,omitempty" redis:"client_ip"`
	UserAgent string     `json:"user_agent,omitempty" redis:"user_agent"`
	Timestamp time.Time  `json:"timestamp" redis:"timestamp"`
}
