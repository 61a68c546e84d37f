package room

import apperrors "safetrade/internal/errors"

var (
	ErrRoomNotFound  = apperrors.NotFound("Room not found")
	ErrSellerOnly    = apperrors.Forbidden("Only sellers can create rooms")
	ErrNotOwner      = apperrors.Forbidden("Only room owner can modify this room")
	ErrRoomInactive  = apperrors.InvalidState("Cannot join inactive room")
	ErrAlreadyMember = apperrors.Conflict("You are already a member of this room")
	ErrOwnerLeave    = apperrors.InvalidState("Room owner cannot leave the room")
	ErrNotMember     = apperrors.InvalidState("You are not a member of this room")
)
