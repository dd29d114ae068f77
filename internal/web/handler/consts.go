package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// AdminPath prefixes every admin route.
	AdminPath = RootPath + "admin"

	// APIPath prefixes the admin JSON API.
	APIPath = AdminPath + "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or core var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or core is nil"
)
