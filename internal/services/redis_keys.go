package services

import "time"

const (
	KeySessionToken    = "session:token:%s"
	KeySubmissions     = "wallet:%s:submissions"
	KeyWalletAnomalies = "wallet:%s:anomalies"
	KeyAnomalyTimes    = "wallet:%s:anomaly_times"
	KeyAnomalyWallets  = "anomaly:wallets"
	KeyRecentAnomalies = "anomalies:recent"

	// Submission history only ever feeds hourly/daily windows; keep a little
	// slack past the longest window before trimming.
	TTLSubmissionHistory = 48 * time.Hour

	// Anomaly records are reviewed over a trailing week.
	TTLAnomalies       = 7 * 24 * time.Hour
	MaxWalletAnomalies = 200
	MaxRecentAnomalies = 500
)
