package session

import "taskdeck/internal/model"

// UserFromLogin builds the profile to persist after a successful login.
// The response's username wins over the submitted one; a response without a
// usable role falls back to the token's role claim, then to plain user.
func UserFromLogin(submitted, respUsername, respRole, token string) model.User {
	u := model.User{Name: respUsername, Role: model.Role(respRole)}
	if u.Name == "" {
		u.Name = submitted
	}
	if u.Role != model.RoleAdmin && u.Role != model.RoleUser {
		if role, ok := RoleFromToken(token); ok {
			u.Role = role
		} else {
			u.Role = model.RoleUser
		}
	}
	return u
}
