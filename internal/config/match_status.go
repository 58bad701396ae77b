package config

type MatchStatus string

const (
	Scheduled MatchStatus = "scheduled"
	Live      MatchStatus = "live"
	Paused    MatchStatus = "paused"
	Finished  MatchStatus = "finished"
)
