package domain

import "github.com/gofiber/fiber/v2"

// Error carries a stable machine-readable code next to the HTTP status the
// presenter should answer with. Services return these as sentinels.
type Error struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, code, message string) *Error {
	return &Error{HTTPStatus: status, Code: code, Message: message}
}

var (
	// not found
	ErrNoRoomsOnFloor        = NewError(fiber.StatusNotFound, "NO_ROOMS_ON_FLOOR", "no rooms registered on this floor")
	ErrNoCompartmentsOnFloor = NewError(fiber.StatusNotFound, "NO_COMPARTMENTS_ON_FLOOR", "no active compartments on this floor")
	ErrRoomNotFound          = NewError(fiber.StatusNotFound, "ROOM_NOT_FOUND", "room not found")
	ErrCompartmentNotFound   = NewError(fiber.StatusNotFound, "COMPARTMENT_NOT_FOUND", "compartment not found")
	ErrFridgeUnitNotFound    = NewError(fiber.StatusNotFound, "FRIDGE_UNIT_NOT_FOUND", "fridge unit not found")
	ErrBundleNotFound        = NewError(fiber.StatusNotFound, "BUNDLE_NOT_FOUND", "bundle not found")
	ErrItemNotFound          = NewError(fiber.StatusNotFound, "ITEM_NOT_FOUND", "item not found")
	ErrSessionNotFound       = NewError(fiber.StatusNotFound, "SESSION_NOT_FOUND", "inspection session not found")
	ErrUserNotFound          = NewError(fiber.StatusNotFound, "USER_NOT_FOUND", "user not found")

	// validation
	ErrParseUUID              = NewError(fiber.StatusBadRequest, "INVALID_UUID", "failed to parse UUID")
	ErrCompartmentNotOnFloor  = NewError(fiber.StatusBadRequest, "COMPARTMENT_NOT_ON_FLOOR", "compartment does not belong to this floor")
	ErrEmptyRoomAssignment    = NewError(fiber.StatusBadRequest, "EMPTY_ROOM_ASSIGNMENT", "exclusive compartment assignment needs at least one room")
	ErrDuplicateRoom          = NewError(fiber.StatusBadRequest, "DUPLICATE_ROOM_ASSIGNMENT", "room listed more than once")
	ErrRoomNotOnFloor         = NewError(fiber.StatusBadRequest, "ROOM_NOT_ON_FLOOR", "room does not belong to this floor")
	ErrSharedSetMismatch      = NewError(fiber.StatusBadRequest, "SHARED_SET_MISMATCH", "shared compartment must be assigned the full floor room set")
	ErrRoomCoverageIncomplete = NewError(fiber.StatusBadRequest, "ROOM_COVERAGE_INCOMPLETE", "exclusive assignments must cover every room on the floor exactly once")
	ErrDistributionImbalanced = NewError(fiber.StatusBadRequest, "ROOM_DISTRIBUTION_IMBALANCED", "room distribution does not match the uniform split")
	ErrInvalidQuantity        = NewError(fiber.StatusBadRequest, "INVALID_QUANTITY", "quantity must be at least 1")
	ErrInvalidExpiryDate      = NewError(fiber.StatusBadRequest, "INVALID_EXPIRY_DATE", "invalid expiry date")
	ErrBlankItemName          = NewError(fiber.StatusBadRequest, "BLANK_ITEM_NAME", "item name must not be blank")
	ErrInvalidActionType      = NewError(fiber.StatusBadRequest, "INVALID_ACTION_TYPE", "unknown inspection action type")
	ErrItemNotInBundle        = NewError(fiber.StatusBadRequest, "ITEM_NOT_IN_BUNDLE", "item belongs to a different bundle")
	ErrInvalidFileType        = NewError(fiber.StatusBadRequest, "INVALID_FILE_TYPE", "file type not allowed")
	ErrInvalidFloor           = NewError(fiber.StatusBadRequest, "INVALID_FLOOR", "floor must be a positive integer")

	// conflict
	ErrCapacityExceeded     = NewError(fiber.StatusConflict, "CAPACITY_EXCEEDED", "compartment is at its bundle capacity")
	ErrLabelPoolExhausted   = NewError(fiber.StatusConflict, "LABEL_POOL_EXHAUSTED", "no free label number in this compartment")
	ErrCompartmentInUse     = NewError(fiber.StatusConflict, "COMPARTMENT_IN_USE", "compartment is locked or under inspection")
	ErrFridgeUnitInactive   = NewError(fiber.StatusConflict, "FRIDGE_UNIT_INACTIVE", "fridge unit is inactive")
	ErrSessionAlreadyActive = NewError(fiber.StatusConflict, "SESSION_ALREADY_ACTIVE", "an inspection is already in progress for this compartment")
	ErrSessionNotInProgress = NewError(fiber.StatusConflict, "SESSION_NOT_IN_PROGRESS", "inspection session is not in progress")
	ErrBundleNotActive      = NewError(fiber.StatusConflict, "BUNDLE_NOT_ACTIVE", "bundle is not active")
	ErrItemNotActive        = NewError(fiber.StatusConflict, "ITEM_NOT_ACTIVE", "item is not active")
	ErrEmailAlreadyUsed     = NewError(fiber.StatusConflict, "EMAIL_ALREADY_USED", "email already registered")

	// locked
	ErrCompartmentLocked          = NewError(fiber.StatusLocked, "COMPARTMENT_LOCKED", "compartment is locked")
	ErrCompartmentUnderInspection = NewError(fiber.StatusLocked, "COMPARTMENT_UNDER_INSPECTION", "compartment is under inspection")

	// forbidden / auth
	ErrForbidden            = NewError(fiber.StatusForbidden, "FORBIDDEN", "not allowed")
	ErrNotBundleOwner       = NewError(fiber.StatusForbidden, "NOT_BUNDLE_OWNER", "only the owner or staff may modify this bundle")
	ErrElevatedRoleRequired = NewError(fiber.StatusForbidden, "ELEVATED_ROLE_REQUIRED", "supervisor or admin role required")
	ErrInvalidCredentials   = NewError(fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "email or password incorrect")
	ErrTokenNotFound        = NewError(fiber.StatusUnauthorized, "TOKEN_NOT_FOUND", "authorization token missing")
	ErrTokenInvalid         = NewError(fiber.StatusUnauthorized, "TOKEN_INVALID", "authorization token invalid")
	ErrTokenExpired         = NewError(fiber.StatusUnauthorized, "TOKEN_EXPIRED", "authorization token expired")
)
