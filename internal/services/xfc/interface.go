package xfc

// ClientAPI defines the interface for xfc_control API operations.
// Command handlers depend on this so tests can substitute a fake.
type ClientAPI interface {
	GetUser(name string) (*User, error)
	CreateUser(name, email string) (*User, error)
	UpdateEmail(name, email string) (*User, error)
	SetNotify(name string, notify bool) (*User, error)
	ListFiles(name, match string) ([]File, error)
	ScheduledDeletions(name string) ([]ScheduledDeletion, error)
	PredictDeletions(name string) (*Prediction, error)
}
