package utils

const (
	SubscriptionRequested = "subscription requested"
	PushAccepted          = "ok"
	OverviewRetrieved     = "overview retrieved"
	HistoryRetrieved      = "monitor history retrieved"
	IncidentsRetrieved    = "incidents retrieved"
)
