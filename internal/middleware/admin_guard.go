package middleware

import "github.com/labstack/echo/v4"

// AdminGuard restricts a route group to admin users.
var AdminGuard echo.MiddlewareFunc = RequireRoles("admin")
