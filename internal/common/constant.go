package common

// AuthorizationHeaderName is the HTTP header carrying the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token inside AuthorizationHeaderName.
const BearerScheme = "Bearer"

// RequestIDHeaderName correlates client requests with server log lines.
const RequestIDHeaderName = "X-Request-ID"
