package scheme

import "time"

// Role represents a user's role in the scheme
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePresident  Role = "president"
	RoleSecretary  Role = "secretary"
	RoleTreasurer  Role = "treasurer"
	RoleBlockChair Role = "block_chair"
	RoleFarmer     Role = "farmer"
)

// KnownRoles lists every role the server may return
func KnownRoles() []Role {
	return []Role{RoleAdmin, RolePresident, RoleSecretary, RoleTreasurer, RoleBlockChair, RoleFarmer}
}

// Valid reports whether the role is one of the known roles.
// Unrecognized roles are treated like farmer: no protected views.
func (r Role) Valid() bool {
	for _, known := range KnownRoles() {
		if r == known {
			return true
		}
	}
	return false
}

// User represents a scheme user account.
// Block and Section are only meaningful for block_chair users; for every
// other role they are ignored by the authorization policy. IsApproved is
// advisory on the client side: the server is the one that denies
// unapproved accounts.
type User struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Role       Role   `json:"role"`
	IsApproved bool   `json:"is_approved"`
	Block      int64  `json:"block,omitempty"`
	Section    int64  `json:"section,omitempty"`
}

// FullName returns the user's display name
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// Location represents a named area of the scheme
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Block represents an organizational block of the scheme
type Block struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Section represents a subdivision of a block
type Section struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Block int64  `json:"block"`
}

// Gender values accepted for farmers
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Farmer represents a registered farmer and their plot allocation.
// TotalAmount is maintained by the server as NumberOfPlots * AmountPerPlot;
// ExpectedTotal recomputes it locally for derived aggregates.
type Farmer struct {
	ID                 int64     `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	MiddleName         string    `json:"middle_name,omitempty"`
	Gender             string    `json:"gender"`
	PhoneNumber        string    `json:"phone_number"`
	Email              string    `json:"email,omitempty"`
	RegistrationNumber string    `json:"registration_number"`
	NumberOfPlots      int64     `json:"number_of_plots"`
	AmountPerPlot      float64   `json:"amount_per_plot"`
	TotalAmount        float64   `json:"total_amount"`
	Location           int64     `json:"location"`
	Block              int64     `json:"block"`
	Section            int64     `json:"section"`
	NextOfKin          string    `json:"next_of_kin,omitempty"`
	IsActive           bool      `json:"is_active"`
	DateRegistered     time.Time `json:"date_registered"`
}

// ExpectedTotal returns the plot fee the farmer owes in total
func (f *Farmer) ExpectedTotal() float64 {
	return float64(f.NumberOfPlots) * f.AmountPerPlot
}

// AttendanceStatus values for an attendance record
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceType values for the kind of activity attended
const (
	AttendanceGeneralAssembly   = "general_assembly"
	AttendanceMainCanalCleaning = "main_canal_cleaning"
	AttendanceBlockCanal        = "block_canal_cleaning"
	AttendanceTraining          = "training"
	AttendanceFieldInspection   = "field_inspection"
)

// AttendanceRecord represents one farmer's attendance at one activity.
// PenaltyPoints only carry weight when Status is absent.
type AttendanceRecord struct {
	ID             int64            `json:"id"`
	Farmer         int64            `json:"farmer"`
	Block          int64            `json:"block,omitempty"`
	Section        int64            `json:"section,omitempty"`
	Date           string           `json:"date"`
	AttendanceType string           `json:"attendance_type"`
	Status         AttendanceStatus `json:"status"`
	Comment        string           `json:"comment,omitempty"`
	PenaltyPoints  int64            `json:"penalty_points"`
	RecordedBy     int64            `json:"recorded_by,omitempty"`
}

// CaseStatus values for discipline case progression. The sequence
// open -> investigating -> hearing_scheduled -> resolved -> closed is
// conventional but not enforced; any status may follow any other.
type CaseStatus string

const (
	CaseOpen             CaseStatus = "open"
	CaseInvestigating    CaseStatus = "investigating"
	CaseHearingScheduled CaseStatus = "hearing_scheduled"
	CaseResolved         CaseStatus = "resolved"
	CaseClosed           CaseStatus = "closed"
	CaseAppealed         CaseStatus = "appealed"
)

// CaseSeverity values for discipline cases
type CaseSeverity string

const (
	SeverityMinor    CaseSeverity = "minor"
	SeverityModerate CaseSeverity = "moderate"
	SeveritySerious  CaseSeverity = "serious"
	SeverityCritical CaseSeverity = "critical"
)

// OffenceType values for discipline cases
const (
	OffenceAbsence       = "absence"
	OffenceLateness      = "lateness"
	OffenceViolence      = "violence"
	OffenceTheft         = "theft"
	OffenceVandalism     = "vandalism"
	OffenceNonCompliance = "non_compliance"
	OffenceOther         = "other"
)

// DisciplineCase represents a disciplinary case raised against a farmer
type DisciplineCase struct {
	ID                 int64        `json:"id"`
	Farmer             int64        `json:"farmer"`
	Block              int64        `json:"block,omitempty"`
	Section            int64        `json:"section,omitempty"`
	OffenceType        string       `json:"offence_type"`
	OffenceDescription string       `json:"offence_description"`
	ActionTaken        string       `json:"action_taken,omitempty"`
	Status             CaseStatus   `json:"status"`
	Severity           CaseSeverity `json:"severity"`
	PenaltyPoints      int64        `json:"penalty_points"`
	Comment            string       `json:"comment,omitempty"`
	DateIncident       string       `json:"date_incident,omitempty"`
	DateReported       time.Time    `json:"date_reported"`
	ReportedBy         int64        `json:"reported_by,omitempty"`
	ResolvedBy         int64        `json:"resolved_by,omitempty"`
	ResolutionDate     *time.Time   `json:"resolution_date,omitempty"`
	Attachment         string       `json:"attachment,omitempty"`
}

// PaymentMethod values
const (
	MethodCash   = "cash"
	MethodAirtel = "airtel"
	MethodTNM    = "tnm"
	MethodBank   = "bank"
	MethodOther  = "other"
)

// PaymentType values
const (
	PaymentPlotFee      = "plot_fee"
	PaymentFine         = "fine"
	PaymentContribution = "contribution"
	PaymentOther        = "other"
)

// Payment represents money received from a farmer
type Payment struct {
	ID               int64      `json:"id"`
	Farmer           int64      `json:"farmer"`
	Amount           float64    `json:"amount"`
	PaymentType      string     `json:"payment_type"`
	Description      string     `json:"description"`
	DatePaid         string     `json:"date_paid"`
	Method           string     `json:"method"`
	ReferenceCode    string     `json:"reference_code,omitempty"`
	Attachment       string     `json:"attachment,omitempty"`
	RecordedBy       int64      `json:"recorded_by,omitempty"`
	IsVerified       bool       `json:"is_verified"`
	VerifiedBy       int64      `json:"verified_by,omitempty"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}
