package api

// Services bundles one typed service per resource family, all sharing
// the same client and invalidation signal.
type Services struct {
	Accounts   *AccountsService
	Farmers    *FarmersService
	Attendance *AttendanceService
	Discipline *DisciplineService
	Payments   *PaymentsService
	RefData    *RefDataService

	// Invalidator receives an event after every successful mutation
	Invalidator *Invalidator
}

// NewServices wires the resource services around the client
func NewServices(client *Client) *Services {
	inval := NewInvalidator()
	return &Services{
		Accounts:    &AccountsService{client: client, inval: inval},
		Farmers:     &FarmersService{client: client, inval: inval},
		Attendance:  &AttendanceService{client: client, inval: inval},
		Discipline:  &DisciplineService{client: client, inval: inval},
		Payments:    &PaymentsService{client: client, inval: inval},
		RefData:     newRefDataService(client, inval),
		Invalidator: inval,
	}
}
