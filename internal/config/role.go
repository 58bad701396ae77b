package config

type Role string

const (
	Gold    Role = "gold"
	Diamond Role = "diamond"
	Admin   Role = "admin"
)

// CardCount is how many cards a participant of this role is dealt per match.
func (r Role) CardCount() int {
	if r == Diamond {
		return 2
	}

	return 1
}
