package domain

const (
	RoleCustomer  = "CUSTOMER"
	RoleBusiness  = "BUSINESS"
	RoleModerator = "MODERATOR"
)

const (
	TransactionDeposit    = "DEPOSIT"
	TransactionWithdrawal = "WITHDRAWAL"
	TransactionTransfer   = "TRANSFER"
)

const (
	InquiryOpen   = "OPEN"
	InquiryClosed = "CLOSED"
)

const (
	PaymentRequestPending  = "PENDING"
	PaymentRequestAccepted = "ACCEPTED"
	PaymentRequestDeclined = "DECLINED"
)

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleBusiness, RoleModerator:
		return true
	}
	return false
}
