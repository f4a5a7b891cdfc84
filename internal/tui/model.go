package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenClients
	ScreenInvoices
	ScreenReceipts
	ScreenContractor
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenOverview:
		return "Overview"
	case ScreenClients:
		return "Clients"
	case ScreenInvoices:
		return "Invoices"
	case ScreenReceipts:
		return "Receipts"
	case ScreenContractor:
		return "Contractor"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	screens map[Screen]tea.Model

	checkedFirstRun bool

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenOverview,
		screens:       map[Screen]tea.Model{ScreenOverview: NewOverviewModel(a)},
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.screens[ScreenOverview].Init())
}

// checkFirstRun looks for a contractor profile and at least one client
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		setUp, err := m.app.ContractorService.IsSetUp(ctx)
		if err != nil {
			return firstRunCheckMsg{contractorSetUp: true, hasClients: true} // assume yes on error
		}
		clients, err := m.app.ClientService.List(ctx)
		if err != nil {
			return firstRunCheckMsg{contractorSetUp: setUp, hasClients: true}
		}
		return firstRunCheckMsg{contractorSetUp: setUp, hasClients: len(clients) > 0}
	}
}

func (m *Model) newScreen(screen Screen) tea.Model {
	switch screen {
	case ScreenOverview:
		return NewOverviewModel(m.app)
	case ScreenClients:
		return NewClientsModel(m.app)
	case ScreenInvoices:
		return NewInvoicesModel(m.app)
	case ScreenReceipts:
		return NewReceiptsModel(m.app)
	case ScreenContractor:
		return NewContractorModel(m.app)
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	if _, ok := m.screens[screen]; !ok {
		s := m.newScreen(screen)
		if s == nil {
			return nil
		}
		m.screens[screen] = s
		return s.Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.err = nil

		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Overview):
				return m, m.switchTo(ScreenOverview)
			case key.Matches(msg, DefaultKeyMap.Clients):
				return m, m.switchTo(ScreenClients)
			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)
			case key.Matches(msg, DefaultKeyMap.Receipts):
				return m, m.switchTo(ScreenReceipts)
			case key.Matches(msg, DefaultKeyMap.Contractor):
				return m, m.switchTo(ScreenContractor)
			}
		}

	case firstRunCheckMsg:
		if m.checkedFirstRun {
			return m, nil
		}
		m.checkedFirstRun = true
		switch {
		case !msg.contractorSetUp:
			initCmd := m.switchTo(ScreenContractor)
			return m, tea.Batch(initCmd, func() tea.Msg { return OpenContractorFormMsg{} })
		case !msg.hasClients:
			initCmd := m.switchTo(ScreenClients)
			return m, tea.Batch(initCmd, func() tea.Msg { return OpenNewClientFormMsg{} })
		}
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen, ok := m.screens[m.currentScreen]; ok {
		m.screens[m.currentScreen], cmd = screen.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("invoicer - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[O]verview  [C]lients  [I]nvoices  [R]eceipts  [,] Contractor  [Q]uit")

	content := "Loading..."
	if screen, ok := m.screens[m.currentScreen]; ok {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
