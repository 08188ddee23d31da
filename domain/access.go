package domain

// CanAccess reports whether the actor may read or mutate the booking: the
// owner and admins may, nobody else.
func (b *Booking) CanAccess(actor *User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == UserRoleAdmin || b.UserID == actor.ID
}
