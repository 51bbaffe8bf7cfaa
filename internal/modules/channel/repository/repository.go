package repository

// Repository defines the interface for channel whitelist persistence
type Repository interface {
	LoadChannels() ([]string, error)
	SaveChannels(channelIDs []string) error
}
