package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const RoleKey ContextKey = "role"

var Ctx = context.Background()
