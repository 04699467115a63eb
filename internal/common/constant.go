package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme the API accepts.
const BearerScheme = "Bearer"

// TokenTypeBearer is reported to clients alongside issued tokens.
const TokenTypeBearer = "bearer"
