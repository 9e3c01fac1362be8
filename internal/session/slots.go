package session

// Flash slot names read by the dashboard view. At most one active value per
// slot; a new write replaces the old one and its clear schedule.
const (
	SlotErrorCreateUser        = "errorCreateUser"
	SlotErrorUpdateUser        = "errorUpdateUser"
	SlotErrorDeleteUser        = "errorDeleteUser"
	SlotErrorCreateCatway      = "errorCreateCatway"
	SlotErrorUpdateCatway      = "errorUpdateCatway"
	SlotErrorDeleteCatway      = "errorDeleteCatway"
	SlotErrorSaveReservation   = "errorSaveReservation"
	SlotErrorDeleteReservation = "errorDeleteReservation"

	SlotSuccessCreateUser        = "successCreateUser"
	SlotSuccessUpdateUser        = "successUpdateUser"
	SlotSuccessDeleteUser        = "successDeleteUser"
	SlotSuccessCreateCatway      = "successCreateCatway"
	SlotSuccessUpdateCatway      = "successUpdateCatway"
	SlotSuccessDeleteCatway      = "successDeleteCatway"
	SlotSuccessSaveReservation   = "successSaveReservation"
	SlotSuccessDeleteReservation = "successDeleteReservation"
)
