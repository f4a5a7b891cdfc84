package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewClientFormMsg tells the clients screen to open the new client form
type OpenNewClientFormMsg struct{}

// OpenContractorFormMsg tells the contractor screen to open its edit form
type OpenContractorFormMsg struct{}

// firstRunCheckMsg reports what setup the database still needs
type firstRunCheckMsg struct {
	contractorSetUp bool
	hasClients      bool
}

// exportedMsg reports the result of a PDF export
type exportedMsg struct {
	path string
	err  error
}
