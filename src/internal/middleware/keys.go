package middleware

// Context keys under which pipeline stages publish request data.
const (
	ClientIPKey  = "client_ip"
	BodyKey      = "body"
	CookiesKey   = "cookies"
	LastVisitKey = "last_visit"
	ViewDataKey  = "view_data"
	RouteNameKey = "route_name"
)
