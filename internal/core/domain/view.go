package domain

import "time"

// View names a top-level screen of the dashboard.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewIntake     View = "intake"
	ViewCalendar   View = "calendar"
	ViewCMS        View = "cms"
	ViewCRM        View = "crm"
	ViewFinancials View = "financials"
	ViewReports    View = "reports"
	ViewPeople     View = "people"
)

func (v View) IsValid() bool {
	switch v {
	case ViewDashboard, ViewIntake, ViewCalendar, ViewCMS, ViewCRM, ViewFinancials, ViewReports, ViewPeople:
		return true
	}
	return false
}

// ViewContext is the transient payload handed to the target of a navigation.
type ViewContext map[string]string

// ViewState is the router's current position.
type ViewState struct {
	View    View        `json:"view"`
	Context ViewContext `json:"context,omitempty"`
}

// HandoffOffer asks the user whether to jump to another view after an
// action, e.g. finalizing invoicing once a matter is completed.
type HandoffOffer struct {
	ID        string      `json:"id"`
	MatterID  string      `json:"matter_id"`
	Prompt    string      `json:"prompt"`
	Target    View        `json:"target"`
	Context   ViewContext `json:"context"`
	CreatedAt time.Time   `json:"created_at"`
}
