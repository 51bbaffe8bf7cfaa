package domain

// Channel identifies a chat channel as seen by the command surface
type Channel struct {
	ID   string
	Name string
}

// DisplayName is the human label for replies, falling back to the ID
func (c Channel) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
