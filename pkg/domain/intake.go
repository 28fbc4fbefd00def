package domain

// PartnerRole selects which intake questions are asked on step 1.
type PartnerRole string

const (
	RoleOperator PartnerRole = "OPERATOR"
	RoleCreator  PartnerRole = "CREATOR"
)

// IntakeStep is the wizard state.
type IntakeStep string

const (
	StepIdentity   IntakeStep = "STEP_1"
	StepVolume     IntakeStep = "STEP_2"
	StepCompliance IntakeStep = "STEP_3"
	StepSubmitting IntakeStep = "SUBMITTING"
	StepComplete   IntakeStep = "COMPLETE"
)

// Number returns the 1-based index of the editable steps, 0 otherwise.
func (s IntakeStep) Number() int {
	switch s {
	case StepIdentity:
		return 1
	case StepVolume:
		return 2
	case StepCompliance:
		return 3
	}
	return 0
}

// IntakeForm is the data collected by the affiliate intake wizard.
type IntakeForm struct {
	EntityName    string `json:"entity_name"`
	Website       string `json:"website"`
	ContactEmail  string `json:"contact_email"`
	TrafficSource string `json:"traffic_source"`
	MonthlyVol    string `json:"monthly_vol"`
	License       string `json:"license"`
	CodeOfConduct bool   `json:"code_of_conduct"`
	AMLCheck      bool   `json:"aml_check"`
}
