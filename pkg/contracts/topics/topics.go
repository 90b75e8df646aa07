package topics

const (
	// Pledges
	PledgeCreated = "pledge_created"

	// DLQs
	PledgeCreatedDLQ = "pledge_created_dlq"

	// Canal Redis Pub/Sub com estatísticas de partidas
	StatsBroadcast = "pledge_stats_broadcast"
)
