package models

// OrganizationType defines the legal form of an organization
type OrganizationType string

const (
	OrganizationTypeCommercial            OrganizationType = "COMMERCIAL"
	OrganizationTypePublic                OrganizationType = "PUBLIC"
	OrganizationTypeGovernment            OrganizationType = "GOVERNMENT"
	OrganizationTypeTrust                 OrganizationType = "TRUST"
	OrganizationTypePrivateLimitedCompany OrganizationType = "PRIVATE_LIMITED_COMPANY"
	OrganizationTypeOpenJointStockCompany OrganizationType = "OPEN_JOINT_STOCK_COMPANY"
)

// OrganizationTypes lists every organization type in display order
var OrganizationTypes = []OrganizationType{
	OrganizationTypeCommercial,
	OrganizationTypePublic,
	OrganizationTypeGovernment,
	OrganizationTypeTrust,
	OrganizationTypePrivateLimitedCompany,
	OrganizationTypeOpenJointStockCompany,
}

// IsValid checks if the OrganizationType is valid
func (t OrganizationType) IsValid() bool {
	switch t {
	case OrganizationTypeCommercial, OrganizationTypePublic, OrganizationTypeGovernment,
		OrganizationTypeTrust, OrganizationTypePrivateLimitedCompany, OrganizationTypeOpenJointStockCompany:
		return true
	}
	return false
}

// Label returns the human readable name of the type
func (t OrganizationType) Label() string {
	switch t {
	case OrganizationTypeCommercial:
		return "Commercial"
	case OrganizationTypePublic:
		return "Public"
	case OrganizationTypeGovernment:
		return "Government"
	case OrganizationTypeTrust:
		return "Trust"
	case OrganizationTypePrivateLimitedCompany:
		return "Private limited company"
	case OrganizationTypeOpenJointStockCompany:
		return "Open joint-stock company"
	case "":
		return "-"
	}
	return string(t)
}

// ImportStatus defines the state of a bulk import operation
type ImportStatus string

const (
	ImportStatusInProgress ImportStatus = "IN_PROGRESS"
	ImportStatusSuccess    ImportStatus = "SUCCESS"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// IsTerminal reports whether the import will not change state anymore
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusSuccess || s == ImportStatusFailed
}

// SortDirection is the ordering applied to a sort field
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Toggle returns the opposite direction
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}
