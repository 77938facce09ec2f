package domain

// View names a navigation target of the client.
type View string

const (
	ViewHome      View = "Home"
	ViewDashboard View = "Dashboard"
)
