package domain

type Table string

const (
	TableTrackerStates      Table = "tracker_states"
	TableAuctionActivities  Table = "auction_activities"
	TableAuctionAccountInfo Table = "auction_account_summaries"
)
