package middleware

import "context"

// SystemActor is recorded when no authenticated caller is present.
const SystemActor = "system"

// ClaimsIdentity resolves the audit actor from the identity placed in the
// request context by AuthMiddleware. Preference order is email, username, user id.
type ClaimsIdentity struct{}

func (ClaimsIdentity) Resolve(ctx context.Context) string {
	id, ok := IdentityFromCtx(ctx)
	if !ok {
		return SystemActor
	}
	switch {
	case id.Email != "":
		return id.Email
	case id.Username != "":
		return id.Username
	case id.UserID != "":
		return id.UserID
	}
	return SystemActor
}
